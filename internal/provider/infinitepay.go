package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/metric"
)

var (
	_ Gateway  = (*InfinitePay)(nil)
	_ Verifier = (*InfinitePay)(nil)
)

// InfinitePay routes through the public hosted-checkout links API,
// keyed by the merchant handle (the "Infinite Tag"). When the links
// API cannot be reached, charge creation degrades to an in-app
// deeplink built from the handle and merchant document, which the
// buyer opens on a device with the provider's app installed.
type InfinitePay struct {
	client   *http.Client
	cfg      config.InfinitePay
	checkout config.Checkout
	log      logger.Logger
	metrics  metric.Provider
}

func NewInfinitePay(
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Provider,
) *InfinitePay {
	return &InfinitePay{
		client:   newHTTPClient(),
		cfg:      cfg.InfinitePay,
		checkout: cfg.Checkout,
		log:      log,
		metrics:  metrics,
	}
}

func (g *InfinitePay) Name() string {
	return NameInfinitePay
}

type (
	infiniteItem struct {
		Quantity    int    `json:"quantity"`
		Price       int64  `json:"price"`
		Description string `json:"description"`
	}

	infiniteCustomer struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number,omitempty"`
	}

	infiniteCheckout struct {
		Handle      string           `json:"handle"`
		RedirectURL string           `json:"redirect_url"`
		OrderNSU    string           `json:"order_nsu"`
		Items       []infiniteItem   `json:"items"`
		Customer    infiniteCustomer `json:"customer"`
	}

	infinitePaymentCheck struct {
		Paid          bool   `json:"paid"`
		Amount        int64  `json:"amount"`
		PaidAmount    int64  `json:"paid_amount"`
		Installments  int    `json:"installments"`
		CaptureMethod string `json:"capture_method"`
	}
)

func (g *InfinitePay) CreateCharge(
	ctx context.Context,
	req *entity.CheckoutRequest,
) (*entity.ChargeResult, error) {
	const op = "provider.infinitepay.CreateCharge"

	if g.cfg.Handle == "" {
		return nil, fmt.Errorf("%s: INFINITEPAY_HANDLE: %w", op, entity.ErrProviderConfig)
	}

	phone := req.Phone
	if phone != "" {
		phone = "+55" + phone
	}

	payload := infiniteCheckout{
		Handle:      g.cfg.Handle,
		RedirectURL: g.checkout.BaseURL + "/success?order_id=" + req.OrderNSU,
		OrderNSU:    req.OrderNSU,
		Items: []infiniteItem{{
			Quantity:    1,
			Price:       req.Amount,
			Description: g.checkout.ProductName,
		}},
		Customer: infiniteCustomer{
			Name:        req.Name,
			Email:       req.Email,
			PhoneNumber: phone,
		},
	}

	raw, err := call(ctx, g.client, g.metrics,
		NameInfinitePay, "checkout_links",
		http.MethodPost, g.cfg.BaseURL+"/invoices/public/checkout/links",
		nil,
		payload,
	)
	if err != nil {
		// Links API down or refusing: fall back to the in-app
		// deeplink instead of losing the sale.
		g.log.Ctx(ctx).Warnw("infinitepay links API failed, using deeplink fallback",
			"order_nsu", req.OrderNSU,
			"error", err,
		)
		return g.deeplinkCharge(req)
	}

	doc, err := decodeDocument(raw, op)
	if err != nil {
		return nil, err
	}

	checkoutURL := probeString(doc, "url", "data.url", "checkout_url")
	if checkoutURL == "" {
		return nil, fmt.Errorf("%s: checkout url missing in response: %w", op, entity.ErrMalformedPayload)
	}

	g.log.Ctx(ctx).Infow("infinitepay checkout link created",
		"order_nsu", req.OrderNSU,
	)

	return &entity.ChargeResult{
		Provider:   NameInfinitePay,
		BillingID:  req.OrderNSU,
		PaymentURL: checkoutURL,
		Amount:     req.Amount,
	}, nil
}

func (g *InfinitePay) deeplinkCharge(req *entity.CheckoutRequest) (*entity.ChargeResult, error) {
	const op = "provider.infinitepay.deeplinkCharge"

	if g.cfg.MerchantDoc == "" {
		return nil, fmt.Errorf("%s: INFINITEPAY_MERCHANT_DOC: %w", op, entity.ErrProviderConfig)
	}

	params := url.Values{}
	params.Set("handle", g.cfg.Handle)
	params.Set("doc_number", g.cfg.MerchantDoc)
	params.Set("amount", strconv.FormatInt(req.Amount, 10))
	params.Set("payment_method", "credit")
	params.Set("installments", "1")
	params.Set("order_id", req.OrderNSU)
	params.Set("result_url", g.checkout.BaseURL+"/success?order_id="+req.OrderNSU)
	params.Set("customer_name", req.Name)
	params.Set("customer_email", req.Email)
	params.Set("customer_phone", req.Phone)
	params.Set("customer_document", req.Document)
	params.Set("af_force_deeplink", "true")

	return &entity.ChargeResult{
		Provider:  NameInfinitePay,
		BillingID: req.OrderNSU,
		Deeplink:  "infinitepaydash://infinitetap-app?" + params.Encode(),
		Amount:    req.Amount,
	}, nil
}

func (g *InfinitePay) VerifyPayment(
	ctx context.Context,
	req *entity.VerificationRequest,
) (*entity.VerificationResult, error) {
	const op = "provider.infinitepay.VerifyPayment"

	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing %v: %w", op, missing, entity.ErrInvalidData)
	}

	raw, err := call(ctx, g.client, g.metrics,
		NameInfinitePay, "payment_check",
		http.MethodPost, g.cfg.BaseURL+"/invoices/public/checkout/payment_check",
		nil,
		req,
	)
	if err != nil {
		return nil, err
	}

	var check infinitePaymentCheck
	if err := json.Unmarshal(raw, &check); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, entity.ErrMalformedPayload)
	}

	return &entity.VerificationResult{
		Paid:          check.Paid,
		Amount:        check.Amount,
		PaidAmount:    check.PaidAmount,
		Installments:  check.Installments,
		CaptureMethod: check.CaptureMethod,
	}, nil
}
