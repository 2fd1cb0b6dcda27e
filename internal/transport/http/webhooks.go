package httpt

import (
	"errors"
	"net/http"

	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Each provider has its own contract for webhook acknowledgements;
// the response policies below are deliberately not unified.

// abacateWebhookHandler rejects deliveries it cannot decode: a 400
// makes AbacatePay retry later with a hopefully sane payload.
func (h *CheckoutHandler) abacateWebhookHandler(c *gin.Context) {
	const op = "transport.abacateWebhookHandler"

	var hook entity.AbacateWebhook
	if err := c.ShouldBindJSON(&hook); err != nil {
		h.handleMalformedBody(c, op, err)
		return
	}

	err := h.svc.HandleAbacateWebhook(c.Request.Context(), &hook)
	switch {
	case errors.Is(err, entity.ErrMalformedPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Evento sem cobrança"})
	case errors.Is(err, entity.ErrDuplicateEvent):
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
	case err != nil:
		h.handleServiceError(c, err, op)
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// infinitePayWebhookHandler insists on the three transaction
// identifiers; deliveries without them are unusable and get a 400.
func (h *CheckoutHandler) infinitePayWebhookHandler(c *gin.Context) {
	const op = "transport.infinitePayWebhookHandler"

	var hook entity.InfinitePayWebhook
	if err := c.ShouldBindJSON(&hook); err != nil {
		h.handleMalformedBody(c, op, err)
		return
	}

	if missing := hook.MissingFields(); len(missing) > 0 {
		h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.WarnLevel,
			"webhook delivery missing identifiers",
			logger.String("op", op),
			logger.Any("missing", missing),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Campos obrigatórios ausentes",
			"missing": missing,
		})
		return
	}

	err := h.svc.HandleInfinitePayWebhook(c.Request.Context(), &hook)
	switch {
	case errors.Is(err, entity.ErrDuplicateEvent):
		c.JSON(http.StatusOK, gin.H{"success": true, "duplicate": true})
	case err != nil:
		h.handleServiceError(c, err, op)
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// mercadoPagoWebhookHandler always acknowledges with 200 so Mercado
// Pago stops retrying; failures are logged and recovered through the
// payment status endpoint instead.
func (h *CheckoutHandler) mercadoPagoWebhookHandler(c *gin.Context) {
	const op = "transport.mercadoPagoWebhookHandler"
	ctx := c.Request.Context()

	var hook struct {
		Type string `json:"type"`
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	// thin pointer arrives in the body or, for older topics, in the
	// query string
	_ = c.ShouldBindJSON(&hook)

	paymentID := hook.Data.ID
	if paymentID == "" {
		paymentID = c.Query("id")
		if paymentID == "" {
			paymentID = c.Query("data.id")
		}
	}
	topic := hook.Type
	if topic == "" {
		topic = c.Query("topic")
		if topic == "" {
			topic = c.Query("type")
		}
	}

	if paymentID == "" || (topic != "" && topic != "payment") {
		h.log.Ctx(ctx).LogAttrs(ctx, logger.InfoLevel, "ignoring non-payment notification",
			logger.String("op", op),
			logger.String("topic", topic),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.svc.HandleMercadoPagoWebhook(ctx, paymentID); err != nil &&
		!errors.Is(err, entity.ErrDuplicateEvent) {
		h.log.Ctx(ctx).LogAttrs(ctx, logger.ErrorLevel, "webhook processing failed",
			logger.String("op", op),
			logger.Any("error", err),
			logger.String("payment_id", paymentID),
		)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
