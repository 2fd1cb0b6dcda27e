// Package provider holds the outbound gateways to the external
// payment APIs. Every gateway does the same three things in its own
// dialect: map the normalized checkout request into the provider's
// payload, issue a single POST with the provider's auth headers, and
// normalize the response back into an entity.ChargeResult. One
// attempt, no retry; a non-2xx answer is passed through untouched.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/metric"
)

//go:generate mockgen -source=provider.go -destination=mock/provider.go -package=mock_provider

const (
	NameAbacatePay  = "abacatepay"
	NameInfinitePay = "infinitepay"
	NameMercadoPago = "mercadopago"

	_clientTimeout = 30 * time.Second
)

type (
	// Gateway creates a charge with one external payment provider.
	Gateway interface {
		Name() string
		CreateCharge(ctx context.Context, req *entity.CheckoutRequest) (*entity.ChargeResult, error)
	}

	// Verifier is the synchronous payment_check call some providers
	// expose. Every call is a fresh provider round trip, no caching.
	Verifier interface {
		VerifyPayment(ctx context.Context, req *entity.VerificationRequest) (*entity.VerificationResult, error)
	}

	// PaymentFetcher resolves a thin webhook pointer into the full
	// payment record.
	PaymentFetcher interface {
		GetPayment(ctx context.Context, paymentID string) (*entity.PaymentDetail, error)
	}
)

// ForName builds the gateway selected by configuration.
func ForName(
	name string,
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Provider,
) (Gateway, error) {
	switch name {
	case NameAbacatePay:
		return NewAbacatePay(cfg, log, metrics), nil
	case NameInfinitePay:
		return NewInfinitePay(cfg, log, metrics), nil
	case NameMercadoPago:
		return NewMercadoPago(cfg, log, metrics), nil
	default:
		return nil, fmt.Errorf("provider.ForName: unknown provider %q", name)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: _clientTimeout}
}

// call issues one outbound request and returns the raw body. A non-2xx
// status becomes an *entity.ProviderError carrying the provider's
// status and error text.
func call(
	ctx context.Context,
	client *http.Client,
	metrics metric.Provider,
	provider, operation, method, url string,
	headers map[string]string,
	body any,
) ([]byte, error) {
	op := fmt.Sprintf("provider.%s.%s", provider, operation)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode payload: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)
	if err != nil {
		metrics.Call(provider, operation, metric.OutcomeNetworkError, duration)
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.Call(provider, operation, metric.OutcomeNetworkError, duration)
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.Call(provider, operation, metric.OutcomeProviderError, duration)
		return nil, &entity.ProviderError{
			Provider: provider,
			Status:   resp.StatusCode,
			Body:     string(raw),
		}
	}

	metrics.Call(provider, operation, metric.OutcomeOK, duration)
	return raw, nil
}

func decodeDocument(raw []byte, op string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, entity.ErrMalformedPayload)
	}
	return doc, nil
}
