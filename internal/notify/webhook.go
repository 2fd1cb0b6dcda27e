package notify

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

const _sinkWebhook = "webhook"

// Webhook forwards order metadata to the optional secondary endpoint
// (an automation hook, typically) at charge creation.
type Webhook struct {
	client  *http.Client
	url     string
	log     logger.Logger
	metrics metric.SideEffect
}

func NewWebhook(cfg *config.Config, log logger.Logger, metrics metric.SideEffect) *Webhook {
	return &Webhook{
		client:  &http.Client{Timeout: _clientTimeout},
		url:     cfg.Checkout.NotifyWebhookURL,
		log:     log,
		metrics: metrics,
	}
}

type webhookEvent struct {
	Event     string         `json:"event"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// NotifyCheckout posts a customer_data event with the billing
// metadata. Skipped silently when no endpoint is configured.
func (w *Webhook) NotifyCheckout(ctx context.Context, req *entity.CheckoutRequest, result *entity.ChargeResult) error {
	const op = "notify.Webhook.NotifyCheckout"

	if w.url == "" {
		return nil
	}

	event := webhookEvent{
		Event:     "customer_data",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data: map[string]any{
			"name":       req.Name,
			"email":      req.Email,
			"phone":      req.Phone,
			"amount":     result.Amount,
			"provider":   result.Provider,
			"billing_id": result.BillingID,
			"order_nsu":  req.OrderNSU,
		},
	}

	encoded, err := json.Marshal(event)
	if err != nil {
		w.metrics.Failed(_sinkWebhook)
		return fmt.Errorf("%s: encode payload: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(encoded))
	if err != nil {
		w.metrics.Failed(_sinkWebhook)
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(httpReq)
	if err != nil {
		w.metrics.Failed(_sinkWebhook)
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		w.metrics.Failed(_sinkWebhook)
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(body))
	}

	w.metrics.Sent(_sinkWebhook)
	return nil
}
