package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/metric"
)

var _ Gateway = (*AbacatePay)(nil)

// AbacatePay creates one-time PIX billings. The buyer gets back a
// hosted payment URL plus the raw PIX QR payload for in-page display.
type AbacatePay struct {
	client   *http.Client
	cfg      config.AbacatePay
	checkout config.Checkout
	log      logger.Logger
	metrics  metric.Provider
}

func NewAbacatePay(
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Provider,
) *AbacatePay {
	return &AbacatePay{
		client:   newHTTPClient(),
		cfg:      cfg.AbacatePay,
		checkout: cfg.Checkout,
		log:      log,
		metrics:  metrics,
	}
}

func (g *AbacatePay) Name() string {
	return NameAbacatePay
}

type (
	abacateProduct struct {
		ExternalID  string `json:"externalId"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Quantity    int    `json:"quantity"`
		Price       int64  `json:"price"`
	}

	abacateCustomer struct {
		Name      string `json:"name"`
		TaxID     string `json:"taxId"`
		Cellphone string `json:"cellphone"`
		Email     string `json:"email"`
	}

	abacateBilling struct {
		Frequency     string           `json:"frequency"`
		Methods       []string         `json:"methods"`
		Products      []abacateProduct `json:"products"`
		Customer      abacateCustomer  `json:"customer"`
		ReturnURL     string           `json:"returnUrl"`
		CompletionURL string           `json:"completionUrl"`
	}
)

func (g *AbacatePay) CreateCharge(
	ctx context.Context,
	req *entity.CheckoutRequest,
) (*entity.ChargeResult, error) {
	const op = "provider.abacatepay.CreateCharge"

	if g.cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: ABACATEPAY_API_KEY: %w", op, entity.ErrProviderConfig)
	}
	if req.Document == "" {
		return nil, fmt.Errorf("%s: tax id required for PIX billing: %w", op, entity.ErrInvalidData)
	}

	payload := abacateBilling{
		Frequency: "ONE_TIME",
		Methods:   []string{"PIX"},
		Products: []abacateProduct{{
			ExternalID:  req.OrderNSU,
			Name:        g.checkout.ProductName,
			Description: g.checkout.ProductDescription,
			Quantity:    1,
			Price:       req.Amount,
		}},
		Customer: abacateCustomer{
			Name:      req.Name,
			TaxID:     req.Document,
			Cellphone: req.Phone,
			Email:     req.Email,
		},
		ReturnURL:     g.checkout.BaseURL,
		CompletionURL: g.checkout.BaseURL + "/success",
	}

	raw, err := call(ctx, g.client, g.metrics,
		NameAbacatePay, "billing_create",
		http.MethodPost, g.cfg.BaseURL+"/billing/create",
		map[string]string{"Authorization": "Bearer " + g.cfg.APIKey},
		payload,
	)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(raw, op)
	if err != nil {
		return nil, err
	}

	// Billing fields moved between data.*, data.bill.* and the top
	// level across API versions; probe all shapes seen in production.
	result := &entity.ChargeResult{
		Provider:   NameAbacatePay,
		BillingID:  probeString(doc, "data.id", "data.bill.id", "id"),
		PaymentURL: probeString(doc, "data.url", "data.bill.url", "url"),
		QRCode:     probeString(doc, "data.pix.qrCode", "data.bill.pix.qrCode", "data.qrCode", "qrCode"),
		QRCodeURL:  probeString(doc, "data.pix.qrCodeUrl", "data.bill.pix.qrCodeUrl", "data.qrCodeUrl", "qrCodeUrl"),
		ExpiresAt:  probeString(doc, "data.devolutionAt", "data.expiresAt"),
		Amount:     req.Amount,
	}

	if result.BillingID == "" {
		return nil, fmt.Errorf("%s: billing id missing in response: %w", op, entity.ErrMalformedPayload)
	}

	g.log.Ctx(ctx).Infow("abacatepay billing created",
		"billing_id", result.BillingID,
		"amount", result.Amount,
	)

	return result, nil
}
