// Package notify holds the best-effort notification sinks fired after
// checkout and webhook events. Sinks never fail the caller: an
// unconfigured sink is skipped, a failed delivery is logged and
// counted.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/metric"
)

const (
	_sinkTelegram  = "telegram"
	_clientTimeout = 15 * time.Second
)

// Telegram posts Markdown messages to a fixed chat through the bot
// API. With no bot token or chat id configured every send is a no-op.
type Telegram struct {
	client  *http.Client
	cfg     config.Telegram
	log     logger.Logger
	metrics metric.SideEffect
}

func NewTelegram(cfg *config.Config, log logger.Logger, metrics metric.SideEffect) *Telegram {
	return &Telegram{
		client:  &http.Client{Timeout: _clientTimeout},
		cfg:     cfg.Telegram,
		log:     log,
		metrics: metrics,
	}
}

func (t *Telegram) configured() bool {
	return t.cfg.BotToken != "" && t.cfg.ChatID != ""
}

// NotifyCheckout announces a freshly created charge.
func (t *Telegram) NotifyCheckout(ctx context.Context, req *entity.CheckoutRequest, result *entity.ChargeResult) error {
	var b strings.Builder
	b.WriteString("🛒 *Novo checkout criado*\n\n")
	fmt.Fprintf(&b, "*Nome:* %s\n", req.Name)
	fmt.Fprintf(&b, "*Email:* %s\n", req.Email)
	fmt.Fprintf(&b, "*Telefone:* %s\n", req.Phone)
	fmt.Fprintf(&b, "*Valor:* R$ %.2f\n", float64(result.Amount)/100)
	fmt.Fprintf(&b, "*Provedor:* %s\n", result.Provider)
	fmt.Fprintf(&b, "*Pedido:* %s", result.BillingID)

	return t.send(ctx, b.String())
}

// NotifyPayment announces a payment status change coming off a
// webhook. Every status is reported, not just approvals.
func (t *Telegram) NotifyPayment(ctx context.Context, detail *entity.PaymentDetail) error {
	icon := "ℹ️"
	switch detail.Status {
	case entity.StatusApproved, entity.StatusPaid:
		icon = "✅"
	case entity.StatusRejected:
		icon = "❌"
	case entity.StatusPending:
		icon = "⏳"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *Pagamento %s*\n\n", icon, detail.Status)
	fmt.Fprintf(&b, "*Provedor:* %s\n", detail.Provider)
	fmt.Fprintf(&b, "*ID:* %s\n", detail.PaymentID)
	fmt.Fprintf(&b, "*Valor:* R$ %.2f\n", float64(detail.Amount)/100)
	if detail.PayerName != "" {
		fmt.Fprintf(&b, "*Pagador:* %s\n", detail.PayerName)
	}
	if detail.PayerEmail != "" {
		fmt.Fprintf(&b, "*Email:* %s\n", detail.PayerEmail)
	}
	if detail.PayerPhone != "" {
		fmt.Fprintf(&b, "*Telefone:* %s\n", detail.PayerPhone)
	}

	return t.send(ctx, strings.TrimRight(b.String(), "\n"))
}

func (t *Telegram) send(ctx context.Context, text string) error {
	const op = "notify.Telegram.send"

	if !t.configured() {
		t.log.Ctx(ctx).Debugw("telegram sink not configured, skipping")
		return nil
	}

	payload := map[string]string{
		"chat_id":    t.cfg.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		t.metrics.Failed(_sinkTelegram)
		return fmt.Errorf("%s: encode payload: %w", op, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.cfg.BaseURL, t.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		t.metrics.Failed(_sinkTelegram)
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.metrics.Failed(_sinkTelegram)
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.metrics.Failed(_sinkTelegram)
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(body))
	}

	t.metrics.Sent(_sinkTelegram)
	return nil
}
