package httpt

import (
	"context"
	"net/http"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Outbound provider calls sit inside this window, so it is far above
// the usual handler budget.
const _checkoutTimeout = 35 * time.Second

// @Summary Criar checkout
// @Description Valida os dados do comprador e cria a cobrança no provedor configurado
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body entity.CheckoutRequest true "Dados do comprador"
// @Success 200 {object} entity.ChargeResult "Cobrança criada"
// @Failure 400 {object} httpt.ErrorResponse "Dados inválidos"
// @Failure 500 {object} httpt.ErrorResponse "Erro interno ou configuração incompleta"
// @Failure 502 {object} httpt.ErrorResponse "Provedor recusou a cobrança"
// @Router /checkout [post]
func (h *CheckoutHandler) createCheckoutHandler(c *gin.Context) {
	const op = "transport.createCheckoutHandler"

	var req entity.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleMalformedBody(c, op, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), _checkoutTimeout)
	defer cancel()

	result, err := h.svc.CreateCheckout(ctx, &req)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	h.log.Ctx(ctx).LogAttrs(ctx, logger.InfoLevel, "checkout response sent",
		logger.String("billing_id", result.BillingID),
		logger.String("provider", result.Provider),
	)

	result.Success = true
	c.JSON(http.StatusOK, result)
}

// @Summary Verificar pagamento
// @Description Consulta o provedor para confirmar se a fatura foi paga
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body entity.VerificationRequest true "Identificadores da transação"
// @Success 200 {object} entity.VerificationResult "Situação do pagamento"
// @Failure 400 {object} httpt.ErrorResponse "Identificadores ausentes"
// @Router /checkout/verify [post]
func (h *CheckoutHandler) verifyPaymentHandler(c *gin.Context) {
	const op = "transport.verifyPaymentHandler"

	var req entity.VerificationRequest
	if c.Request.Method == http.MethodGet {
		req = entity.VerificationRequest{
			Handle:         c.Query("handle"),
			OrderNSU:       c.Query("order_nsu"),
			TransactionNSU: c.Query("transaction_nsu"),
			Slug:           c.Query("slug"),
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.handleMalformedBody(c, op, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), _checkoutTimeout)
	defer cancel()

	result, err := h.svc.VerifyPayment(ctx, &req)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	result.Success = true
	c.JSON(http.StatusOK, result)
}
