package httpt

import (
	"context"

	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/metric"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=checkout_transport.go -destination=mock/transport.go -package=mock_httpt

// CheckoutService is the application surface the HTTP layer drives.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, req *entity.CheckoutRequest) (*entity.ChargeResult, error)
	VerifyPayment(ctx context.Context, req *entity.VerificationRequest) (*entity.VerificationResult, error)
	HandleAbacateWebhook(ctx context.Context, hook *entity.AbacateWebhook) error
	HandleInfinitePayWebhook(ctx context.Context, hook *entity.InfinitePayWebhook) error
	HandleMercadoPagoWebhook(ctx context.Context, paymentID string) error
}

type CheckoutHandler struct {
	svc     CheckoutService
	log     logger.Logger
	metrics metric.HTTP
	router  *gin.Engine
	debug   bool
}

func NewCheckoutHandler(
	svc CheckoutService,
	log logger.Logger,
	metrics metric.HTTP,
	debug bool,
) *CheckoutHandler {
	h := &CheckoutHandler{
		svc:     svc,
		log:     log,
		metrics: metrics,
		debug:   debug,
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.Recovery())

	h.router = router

	h.setupRoutes()

	return h
}

func (h *CheckoutHandler) Engine() *gin.Engine {
	return h.router
}
