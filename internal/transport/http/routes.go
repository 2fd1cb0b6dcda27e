package httpt

import (
	"net/http"

	_ "github.com/caiomioto2/workshop-athena-checkout/docs" // for swagger

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Workshop Checkout API
// @version         1.0
// @description     Payment proxy for workshop seat checkout
// @contact.name    API Support
// @contact.email   support@example.com
// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html
// @host            localhost:8080
// @BasePath        /api
// @schemes         http https
func (h *CheckoutHandler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	api := h.router.Group("/api")
	{
		api.POST("/checkout", h.createCheckoutHandler)
		api.POST("/checkout/verify", h.verifyPaymentHandler)
		api.GET("/checkout/verify", h.verifyPaymentHandler)

		api.POST("/abacatepay/webhook", h.abacateWebhookHandler)
		api.POST("/infinitepay/webhook", h.infinitePayWebhookHandler)
		// providers probe the endpoint with GET before registering it
		api.GET("/infinitepay/webhook", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "webhook endpoint active",
				"expected_payload": gin.H{
					"invoice_slug":    "abc123",
					"amount":          2000,
					"paid_amount":     2000,
					"installments":    1,
					"capture_method":  "credit_card",
					"transaction_nsu": "uuid",
					"order_nsu":       "uuid",
					"receipt_url":     "https://...",
				},
			})
		})
		api.POST("/mercadopago/webhook", h.mercadoPagoWebhookHandler)
	}

	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
