package httpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"

	"github.com/gin-gonic/gin"
)

func (h *CheckoutHandler) handleServiceError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()
	log := h.log.Ctx(ctx)

	var vErr *entity.ValidationError
	if errors.As(err, &vErr) {
		log.LogAttrs(ctx, logger.WarnLevel, "invalid checkout submission",
			logger.String("op", op),
			logger.String("field", vErr.Field),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": vErr.Message, "field": vErr.Field})
		return
	}

	if provErr, ok := entity.AsProviderError(err); ok {
		log.LogAttrs(ctx, logger.ErrorLevel, "payment provider rejected the call",
			logger.String("op", op),
			logger.String("provider", provErr.Provider),
			logger.Int("status", provErr.Status),
			logger.String("body", provErr.Body),
		)
		// The provider's status and error text pass through; the raw
		// body only leaves as a separate field in debug mode.
		status := provErr.Status
		if status < http.StatusBadRequest || status > 599 {
			status = http.StatusBadGateway
		}
		message := "Falha ao criar cobrança"
		if provErr.Body != "" {
			message = fmt.Sprintf("%s: %s", message, provErr.Body)
		}
		body := gin.H{"success": false, "error": message}
		if h.debug {
			body["provider"] = provErr.Provider
			body["provider_status"] = provErr.Status
			body["detail"] = provErr.Body
		}
		c.JSON(status, body)
		return
	}

	switch {
	case errors.Is(err, entity.ErrInvalidData):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados inválidos"})
	case errors.Is(err, entity.ErrProviderConfig):
		log.LogAttrs(ctx, logger.ErrorLevel, "provider credentials missing",
			logger.String("op", op),
			logger.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Configuração de pagamento incompleta"})
	case errors.Is(err, context.DeadlineExceeded):
		log.LogAttrs(ctx, logger.WarnLevel, "request timeout",
			logger.String("op", op),
			logger.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusGatewayTimeout, gin.H{"success": false, "error": "Tempo de resposta excedido"})
	default:
		log.LogAttrs(ctx, logger.ErrorLevel, "internal server error",
			logger.String("op", op),
			logger.Any("error", err),
			logger.String("path", c.Request.URL.Path),
		)
		body := gin.H{"success": false, "error": "Erro interno"}
		if h.debug {
			body["detail"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

func (h *CheckoutHandler) handleMalformedBody(c *gin.Context, op string, err error) {
	h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.WarnLevel, "malformed request body",
		logger.String("op", op),
		logger.Any("error", err),
		logger.String("client_ip", c.ClientIP()),
	)
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Corpo da requisição inválido"})
}
