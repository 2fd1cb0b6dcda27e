package service

import (
	"context"
	"fmt"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/internal/validation"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/cache"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock_service

const (
	_slowOpThreshold  = 2 * time.Second
	_sideEffectWindow = 15 * time.Second
)

type (
	// Gateway creates a charge with the configured payment provider.
	Gateway interface {
		Name() string
		CreateCharge(ctx context.Context, req *entity.CheckoutRequest) (*entity.ChargeResult, error)
	}

	// Verifier is the synchronous payment_check some providers expose.
	Verifier interface {
		VerifyPayment(ctx context.Context, req *entity.VerificationRequest) (*entity.VerificationResult, error)
	}

	// PaymentFetcher resolves a thin webhook pointer into a full
	// payment record.
	PaymentFetcher interface {
		GetPayment(ctx context.Context, paymentID string) (*entity.PaymentDetail, error)
	}

	// CheckoutSink receives the buyer tuple after a charge is created.
	// Best effort: failures are logged, never propagated.
	CheckoutSink interface {
		NotifyCheckout(ctx context.Context, req *entity.CheckoutRequest, result *entity.ChargeResult) error
	}

	// PaymentSink receives payment status changes off webhooks.
	PaymentSink interface {
		NotifyPayment(ctx context.Context, detail *entity.PaymentDetail) error
	}

	// Ledger records settled payments in the CRM.
	Ledger interface {
		RecordPayment(ctx context.Context, detail *entity.PaymentDetail) error
	}

	CheckoutService struct {
		gateway       Gateway
		verifier      Verifier
		fetcher       PaymentFetcher
		checkoutSinks []CheckoutSink
		paymentSink   PaymentSink
		ledger        Ledger
		dedupe        cache.Cache[string, bool]
		dedupeTTL     time.Duration
		checkout      config.Checkout
		handle        string
		logger        logger.Logger
	}
)

func NewCheckoutService(
	cfg *config.Config,
	gateway Gateway,
	verifier Verifier,
	fetcher PaymentFetcher,
	checkoutSinks []CheckoutSink,
	paymentSink PaymentSink,
	ledger Ledger,
	dedupe cache.Cache[string, bool],
	log logger.Logger,
) *CheckoutService {
	return &CheckoutService{
		gateway:       gateway,
		verifier:      verifier,
		fetcher:       fetcher,
		checkoutSinks: checkoutSinks,
		paymentSink:   paymentSink,
		ledger:        ledger,
		dedupe:        dedupe,
		dedupeTTL:     cfg.Cache.TTL,
		checkout:      cfg.Checkout,
		handle:        cfg.InfinitePay.Handle,
		logger:        log,
	}
}

// CreateCheckout validates the submission, normalizes amount and order
// id, creates the charge with the configured provider and fires the
// notification sinks without waiting for them.
func (cs *CheckoutService) CreateCheckout(
	ctx context.Context,
	req *entity.CheckoutRequest,
) (*entity.ChargeResult, error) {
	const op = "service.CreateCheckout"
	log := cs.logger.Ctx(ctx)

	if result := validation.Checkout(req.Name, req.Email, req.Phone, req.Document); !result.Valid {
		log.LogAttrs(ctx, logger.WarnLevel, "checkout validation failed",
			logger.String("op", op),
			logger.String("field", result.Field),
		)
		return nil, fmt.Errorf("%s: %w", op, &entity.ValidationError{
			Field:   result.Field,
			Message: result.Message,
		})
	}

	req.Phone = validation.Digits(req.Phone)
	req.Document = validation.Digits(req.Document)
	if req.Amount <= 0 {
		req.Amount = cs.checkout.PriceCents
	}
	if req.OrderNSU == "" {
		req.OrderNSU = uuid.NewString()
	}

	log.LogAttrs(ctx, logger.InfoLevel, "checkout started",
		logger.String("op", op),
		logger.String("provider", cs.gateway.Name()),
		logger.String("order_nsu", req.OrderNSU),
		logger.Int("amount", int(req.Amount)),
	)

	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime)
		if duration > _slowOpThreshold {
			log.LogAttrs(ctx, logger.WarnLevel, "slow service operation",
				logger.String("op", op),
				logger.String("order_nsu", req.OrderNSU),
				logger.String("duration", duration.String()),
			)
		}
	}()

	result, err := cs.gateway.CreateCharge(ctx, req)
	if err != nil {
		log.LogAttrs(ctx, logger.ErrorLevel, "charge creation failed",
			logger.String("op", op),
			logger.Any("error", err),
			logger.String("order_nsu", req.OrderNSU),
		)
		return nil, err
	}

	cs.fireCheckoutSinks(ctx, req, result)

	log.LogAttrs(ctx, logger.InfoLevel, "checkout created",
		logger.String("op", op),
		logger.String("provider", result.Provider),
		logger.String("billing_id", result.BillingID),
		logger.String("duration", time.Since(startTime).String()),
	)

	return result, nil
}

// fireCheckoutSinks dispatches the post-checkout side effects on a
// detached context so a slow sink never holds the response.
func (cs *CheckoutService) fireCheckoutSinks(
	ctx context.Context,
	req *entity.CheckoutRequest,
	result *entity.ChargeResult,
) {
	detached := context.WithoutCancel(ctx)
	for _, sink := range cs.checkoutSinks {
		go func(sink CheckoutSink) {
			sinkCtx, cancel := context.WithTimeout(detached, _sideEffectWindow)
			defer cancel()

			if err := sink.NotifyCheckout(sinkCtx, req, result); err != nil {
				cs.logger.Ctx(detached).Warnw("checkout sink failed",
					"order_nsu", req.OrderNSU,
					"error", err,
				)
			}
		}(sink)
	}
}

// VerifyPayment asks the provider whether the invoice settled. The
// merchant handle defaults from configuration when the caller omits
// it. Every call is a fresh provider round trip.
func (cs *CheckoutService) VerifyPayment(
	ctx context.Context,
	req *entity.VerificationRequest,
) (*entity.VerificationResult, error) {
	const op = "service.VerifyPayment"

	if cs.verifier == nil {
		return nil, fmt.Errorf("%s: provider does not support verification: %w", op, entity.ErrProviderConfig)
	}

	if req.Handle == "" {
		req.Handle = cs.handle
	}
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing %v: %w", op, missing, entity.ErrInvalidData)
	}

	result, err := cs.verifier.VerifyPayment(ctx, req)
	if err != nil {
		cs.logger.Ctx(ctx).Errorw("payment verification failed",
			"order_nsu", req.OrderNSU,
			"error", err,
		)
		return nil, err
	}

	cs.logger.Ctx(ctx).Infow("payment verified",
		"order_nsu", req.OrderNSU,
		"paid", result.Paid,
	)
	return result, nil
}

// HandleInfinitePayWebhook processes a payment confirmation. Field
// presence is checked by the transport; here the event is deduped,
// cross-checked and fanned out.
func (cs *CheckoutService) HandleInfinitePayWebhook(
	ctx context.Context,
	hook *entity.InfinitePayWebhook,
) error {
	const op = "service.HandleInfinitePayWebhook"
	log := cs.logger.Ctx(ctx)

	if !cs.markProcessed("infinitepay:" + hook.TransactionNSU) {
		log.LogAttrs(ctx, logger.InfoLevel, "duplicate webhook dropped",
			logger.String("op", op),
			logger.String("transaction_nsu", hook.TransactionNSU),
		)
		return entity.ErrDuplicateEvent
	}

	if hook.Amount != hook.PaidAmount {
		log.LogAttrs(ctx, logger.WarnLevel, "paid amount differs from invoice amount",
			logger.String("op", op),
			logger.String("order_nsu", hook.OrderNSU),
			logger.Int("amount", int(hook.Amount)),
			logger.Int("paid_amount", int(hook.PaidAmount)),
		)
	}

	detail := &entity.PaymentDetail{
		Provider:   "infinitepay",
		PaymentID:  hook.TransactionNSU,
		Status:     entity.StatusPaid,
		Amount:     hook.Amount,
		PaidAmount: hook.PaidAmount,
	}

	log.LogAttrs(ctx, logger.InfoLevel, "infinitepay payment confirmed",
		logger.String("op", op),
		logger.String("order_nsu", hook.OrderNSU),
		logger.String("transaction_nsu", hook.TransactionNSU),
	)

	cs.firePaymentSinks(ctx, detail, true)
	return nil
}

// HandleAbacateWebhook processes a billing event delivery.
func (cs *CheckoutService) HandleAbacateWebhook(
	ctx context.Context,
	hook *entity.AbacateWebhook,
) error {
	const op = "service.HandleAbacateWebhook"
	log := cs.logger.Ctx(ctx)

	charge := hook.ChargeOf()
	if charge == nil || charge.ID == "" {
		return fmt.Errorf("%s: no charge in delivery: %w", op, entity.ErrMalformedPayload)
	}

	if !cs.markProcessed("abacatepay:" + charge.ID + ":" + hook.Event) {
		log.LogAttrs(ctx, logger.InfoLevel, "duplicate webhook dropped",
			logger.String("op", op),
			logger.String("charge_id", charge.ID),
		)
		return entity.ErrDuplicateEvent
	}

	status := entity.StatusPending
	settled := false
	switch hook.Event {
	case "billing.paid", "payment.confirmed":
		status = entity.StatusPaid
		settled = true
	case "billing.failed", "payment.failed":
		status = entity.StatusRejected
	}

	detail := &entity.PaymentDetail{
		Provider:   "abacatepay",
		PaymentID:  charge.ID,
		Status:     status,
		Amount:     charge.Amount,
		PayerName:  charge.Customer.Name,
		PayerEmail: charge.Customer.Email,
		PayerPhone: charge.Customer.Cellphone,
	}

	log.LogAttrs(ctx, logger.InfoLevel, "abacatepay webhook processed",
		logger.String("op", op),
		logger.String("event", hook.Event),
		logger.String("charge_id", charge.ID),
	)

	cs.firePaymentSinks(ctx, detail, settled)
	return nil
}

// HandleMercadoPagoWebhook resolves the thin payment pointer into the
// full record before fanning out. Every status is reported; only
// approved payments reach the ledger.
func (cs *CheckoutService) HandleMercadoPagoWebhook(
	ctx context.Context,
	paymentID string,
) error {
	const op = "service.HandleMercadoPagoWebhook"
	log := cs.logger.Ctx(ctx)

	if cs.fetcher == nil {
		return fmt.Errorf("%s: payment lookup not configured: %w", op, entity.ErrProviderConfig)
	}

	detail, err := cs.fetcher.GetPayment(ctx, paymentID)
	if err != nil {
		// Not marked processed yet, so the provider's redelivery
		// gets a fresh attempt at the lookup.
		log.LogAttrs(ctx, logger.ErrorLevel, "payment lookup failed",
			logger.String("op", op),
			logger.Any("error", err),
			logger.String("payment_id", paymentID),
		)
		return err
	}

	// Keyed on id plus status: the provider redelivers the same
	// pointer on each status transition, and each transition is a
	// distinct event to report.
	if !cs.markProcessed("mercadopago:" + paymentID + ":" + string(detail.Status)) {
		log.LogAttrs(ctx, logger.InfoLevel, "duplicate webhook dropped",
			logger.String("op", op),
			logger.String("payment_id", paymentID),
			logger.String("status", string(detail.Status)),
		)
		return entity.ErrDuplicateEvent
	}

	log.LogAttrs(ctx, logger.InfoLevel, "mercadopago webhook processed",
		logger.String("op", op),
		logger.String("payment_id", paymentID),
		logger.String("status", string(detail.Status)),
	)

	cs.firePaymentSinks(ctx, detail, detail.Status == entity.StatusApproved)
	return nil
}

// markProcessed returns false when the key was already seen inside the
// dedupe window.
func (cs *CheckoutService) markProcessed(key string) bool {
	if cs.dedupe.Has(key) {
		return false
	}
	cs.dedupe.Put(key, true, cs.dedupeTTL)
	return true
}

// firePaymentSinks notifies the payment sink for every status and the
// ledger for settled payments only, both detached from the request.
func (cs *CheckoutService) firePaymentSinks(
	ctx context.Context,
	detail *entity.PaymentDetail,
	settled bool,
) {
	detached := context.WithoutCancel(ctx)

	if cs.paymentSink != nil {
		go func() {
			sinkCtx, cancel := context.WithTimeout(detached, _sideEffectWindow)
			defer cancel()

			if err := cs.paymentSink.NotifyPayment(sinkCtx, detail); err != nil {
				cs.logger.Ctx(detached).Warnw("payment sink failed",
					"payment_id", detail.PaymentID,
					"error", err,
				)
			}
		}()
	}

	if settled && cs.ledger != nil {
		go func() {
			sinkCtx, cancel := context.WithTimeout(detached, _sideEffectWindow)
			defer cancel()

			if err := cs.ledger.RecordPayment(sinkCtx, detail); err != nil {
				cs.logger.Ctx(detached).Warnw("ledger write failed",
					"payment_id", detail.PaymentID,
					"error", err,
				)
			}
		}()
	}
}
