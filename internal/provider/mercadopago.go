package provider

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/metric"
)

var (
	_ Gateway        = (*MercadoPago)(nil)
	_ PaymentFetcher = (*MercadoPago)(nil)
)

// MercadoPago creates hosted-checkout preferences. The preference API
// bills in reais, so the centavo amount is converted at the payload
// boundary and converted back when reading payments.
type MercadoPago struct {
	client   *http.Client
	cfg      config.MercadoPago
	checkout config.Checkout
	log      logger.Logger
	metrics  metric.Provider
}

func NewMercadoPago(
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Provider,
) *MercadoPago {
	return &MercadoPago{
		client:   newHTTPClient(),
		cfg:      cfg.MercadoPago,
		checkout: cfg.Checkout,
		log:      log,
		metrics:  metrics,
	}
}

func (g *MercadoPago) Name() string {
	return NameMercadoPago
}

type (
	mpItem struct {
		ID         string  `json:"id"`
		Title      string  `json:"title"`
		Quantity   int     `json:"quantity"`
		UnitPrice  float64 `json:"unit_price"`
		CurrencyID string  `json:"currency_id"`
	}

	mpPayer struct {
		Email   string `json:"email"`
		Name    string `json:"name,omitempty"`
		Surname string `json:"surname,omitempty"`
	}

	mpBackURLs struct {
		Success string `json:"success"`
		Failure string `json:"failure"`
		Pending string `json:"pending"`
	}

	mpExcludedType struct {
		ID string `json:"id"`
	}

	mpPaymentMethods struct {
		ExcludedPaymentTypes []mpExcludedType `json:"excluded_payment_types"`
		Installments         int              `json:"installments"`
	}

	mpPreference struct {
		Items               []mpItem         `json:"items"`
		Payer               mpPayer          `json:"payer"`
		Metadata            map[string]any   `json:"metadata"`
		ExternalReference   string           `json:"external_reference"`
		BackURLs            mpBackURLs       `json:"back_urls"`
		NotificationURL     string           `json:"notification_url,omitempty"`
		StatementDescriptor string           `json:"statement_descriptor"`
		PaymentMethods      mpPaymentMethods `json:"payment_methods"`
		AutoReturn          string           `json:"auto_return"`
	}
)

// centsToReais converts centavos into the float reais the preference
// API expects, keeping two decimal places exact.
func centsToReais(cents int64) float64 {
	return float64(cents) / 100
}

func reaisToCents(reais float64) int64 {
	return int64(math.Round(reais * 100))
}

// splitName separates the first word as the given name and the rest as
// the surname, the split the payer object wants.
func splitName(full string) (name, surname string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (g *MercadoPago) CreateCharge(
	ctx context.Context,
	req *entity.CheckoutRequest,
) (*entity.ChargeResult, error) {
	const op = "provider.mercadopago.CreateCharge"

	if g.cfg.AccessToken == "" {
		return nil, fmt.Errorf("%s: MP_ACCESS_TOKEN: %w", op, entity.ErrProviderConfig)
	}

	name, surname := splitName(req.Name)

	payload := mpPreference{
		Items: []mpItem{{
			ID:         req.OrderNSU,
			Title:      g.checkout.ProductName,
			Quantity:   1,
			UnitPrice:  centsToReais(req.Amount),
			CurrencyID: "BRL",
		}},
		Payer: mpPayer{
			Email:   req.Email,
			Name:    name,
			Surname: surname,
		},
		Metadata: map[string]any{
			"whatsapp":  req.Phone,
			"order_nsu": req.OrderNSU,
		},
		ExternalReference: req.OrderNSU,
		BackURLs: mpBackURLs{
			Success: g.checkout.BaseURL + "/success",
			Failure: g.checkout.BaseURL + "/failure",
			Pending: g.checkout.BaseURL + "/pending",
		},
		NotificationURL:     g.checkout.BaseURL + "/api/mercadopago/webhook",
		StatementDescriptor: g.checkout.ProductName,
		PaymentMethods: mpPaymentMethods{
			ExcludedPaymentTypes: []mpExcludedType{{ID: "ticket"}, {ID: "debit_card"}},
			Installments:         12,
		},
		AutoReturn: "approved",
	}

	raw, err := call(ctx, g.client, g.metrics,
		NameMercadoPago, "preference_create",
		http.MethodPost, g.cfg.BaseURL+"/checkout/preferences",
		map[string]string{"Authorization": "Bearer " + g.cfg.AccessToken},
		payload,
	)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(raw, op)
	if err != nil {
		return nil, err
	}

	result := &entity.ChargeResult{
		Provider:   NameMercadoPago,
		BillingID:  probeString(doc, "id"),
		PaymentURL: probeString(doc, "init_point", "sandbox_init_point"),
		Amount:     req.Amount,
	}

	if result.PaymentURL == "" {
		return nil, fmt.Errorf("%s: init_point missing in response: %w", op, entity.ErrMalformedPayload)
	}

	g.log.Ctx(ctx).Infow("mercadopago preference created",
		"preference_id", result.BillingID,
		"amount", result.Amount,
	)

	return result, nil
}

// GetPayment resolves a webhook's payment id into the full record.
func (g *MercadoPago) GetPayment(
	ctx context.Context,
	paymentID string,
) (*entity.PaymentDetail, error) {
	const op = "provider.mercadopago.GetPayment"

	if g.cfg.AccessToken == "" {
		return nil, fmt.Errorf("%s: MP_ACCESS_TOKEN: %w", op, entity.ErrProviderConfig)
	}
	if paymentID == "" {
		return nil, fmt.Errorf("%s: empty payment id: %w", op, entity.ErrInvalidData)
	}

	raw, err := call(ctx, g.client, g.metrics,
		NameMercadoPago, "payment_get",
		http.MethodGet, g.cfg.BaseURL+"/v1/payments/"+paymentID,
		map[string]string{"Authorization": "Bearer " + g.cfg.AccessToken},
		nil,
	)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(raw, op)
	if err != nil {
		return nil, err
	}

	detail := &entity.PaymentDetail{
		Provider:   NameMercadoPago,
		PaymentID:  paymentID,
		Status:     entity.PaymentStatus(probeString(doc, "status")),
		PayerEmail: probeString(doc, "payer.email"),
		ApprovedAt: probeString(doc, "date_approved"),
	}

	if amount, ok := probeNumber(doc, "transaction_amount"); ok {
		detail.Amount = reaisToCents(amount)
	}
	if paid, ok := probeNumber(doc, "transaction_details.total_paid_amount"); ok {
		detail.PaidAmount = reaisToCents(paid)
	}

	first := probeString(doc, "payer.first_name")
	last := probeString(doc, "payer.last_name")
	detail.PayerName = strings.TrimSpace(first + " " + last)

	area := probeString(doc, "payer.phone.area_code")
	number := probeString(doc, "payer.phone.number")
	if number != "" {
		detail.PayerPhone = area + number
	}

	return detail, nil
}
