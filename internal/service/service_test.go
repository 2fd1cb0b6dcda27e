package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/internal/service"
	mock_service "github.com/caiomioto2/workshop-athena-checkout/internal/service/mock"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/cache"
	mock_logger "github.com/caiomioto2/workshop-athena-checkout/pkg/logger/mock"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

const _sinkWait = 2 * time.Second

type fixture struct {
	gateway  *mock_service.MockGateway
	verifier *mock_service.MockVerifier
	fetcher  *mock_service.MockPaymentFetcher
	checkout *mock_service.MockCheckoutSink
	payment  *mock_service.MockPaymentSink
	ledger   *mock_service.MockLedger
	svc      *service.CheckoutService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	log := mock_logger.NewMockLogger(ctrl)
	log.EXPECT().Ctx(gomock.Any()).Return(log).AnyTimes()
	log.EXPECT().LogAttrs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Infow(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warnw(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Errorw(gomock.Any(), gomock.Any()).AnyTimes()

	dedupe, err := cache.NewTTLCache[string, bool](100, log)
	require.NoError(t, err)

	f := &fixture{
		gateway:  mock_service.NewMockGateway(ctrl),
		verifier: mock_service.NewMockVerifier(ctrl),
		fetcher:  mock_service.NewMockPaymentFetcher(ctrl),
		checkout: mock_service.NewMockCheckoutSink(ctrl),
		payment:  mock_service.NewMockPaymentSink(ctrl),
		ledger:   mock_service.NewMockLedger(ctrl),
	}
	f.gateway.EXPECT().Name().Return("abacatepay").AnyTimes()

	cfg := &config.Config{
		Cache: config.Cache{TTL: time.Hour},
		Checkout: config.Checkout{
			Provider:   "abacatepay",
			PriceCents: 15000,
		},
		InfinitePay: config.InfinitePay{Handle: "oficina"},
	}

	f.svc = service.NewCheckoutService(
		cfg,
		f.gateway,
		f.verifier,
		f.fetcher,
		[]service.CheckoutSink{f.checkout},
		f.payment,
		f.ledger,
		dedupe,
		log,
	)
	return f
}

func validRequest() *entity.CheckoutRequest {
	return &entity.CheckoutRequest{
		Name:     "Maria Souza",
		Email:    "maria@example.com",
		Phone:    "(11) 99999-8888",
		Document: "111.444.777-35",
	}
}

func TestCreateCheckout_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	charge := &entity.ChargeResult{
		Provider:  "abacatepay",
		BillingID: "abc123",
		Amount:    15000,
	}

	f.gateway.EXPECT().
		CreateCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *entity.CheckoutRequest) (*entity.ChargeResult, error) {
			// normalized before it reaches the gateway
			require.Equal(t, "11999998888", req.Phone)
			require.Equal(t, "11144477735", req.Document)
			require.Equal(t, int64(15000), req.Amount, "configured price fills a missing amount")
			require.NotEmpty(t, req.OrderNSU)
			return charge, nil
		})

	notified := make(chan struct{})
	f.checkout.EXPECT().
		NotifyCheckout(gomock.Any(), gomock.Any(), charge).
		DoAndReturn(func(context.Context, *entity.CheckoutRequest, *entity.ChargeResult) error {
			close(notified)
			return nil
		})

	result, err := f.svc.CreateCheckout(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, charge, result)

	select {
	case <-notified:
	case <-time.After(_sinkWait):
		t.Fatal("checkout sink was not notified")
	}
}

func TestCreateCheckout_ClientAmountWins(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.gateway.EXPECT().
		CreateCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *entity.CheckoutRequest) (*entity.ChargeResult, error) {
			require.Equal(t, int64(9900), req.Amount)
			return &entity.ChargeResult{BillingID: "x", Amount: req.Amount}, nil
		})
	f.checkout.EXPECT().NotifyCheckout(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	req := validRequest()
	req.Amount = 9900

	_, err := f.svc.CreateCheckout(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateCheckout_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*entity.CheckoutRequest)
		field   string
		message string
	}{
		{
			name:    "empty name",
			mutate:  func(r *entity.CheckoutRequest) { r.Name = "  " },
			field:   "name",
			message: "Nome é obrigatório",
		},
		{
			name:    "bad email",
			mutate:  func(r *entity.CheckoutRequest) { r.Email = "not-an-email" },
			field:   "email",
			message: "Email inválido",
		},
		{
			name:    "short phone",
			mutate:  func(r *entity.CheckoutRequest) { r.Phone = "1199" },
			field:   "phone",
			message: "Celular inválido",
		},
		{
			name:    "bad cpf check digits",
			mutate:  func(r *entity.CheckoutRequest) { r.Document = "123.456.789-00" },
			field:   "document",
			message: "CPF inválido",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			// gateway must never be reached

			req := validRequest()
			tc.mutate(req)

			_, err := f.svc.CreateCheckout(context.Background(), req)
			require.ErrorIs(t, err, entity.ErrInvalidData)

			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tc.field, vErr.Field)
			require.Equal(t, tc.message, vErr.Message)
		})
	}
}

func TestCreateCheckout_GatewayError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	provErr := &entity.ProviderError{Provider: "abacatepay", Status: 401, Body: "bad key"}
	f.gateway.EXPECT().
		CreateCharge(gomock.Any(), gomock.Any()).
		Return(nil, provErr)

	_, err := f.svc.CreateCheckout(context.Background(), validRequest())
	require.ErrorIs(t, err, provErr)
}

func TestVerifyPayment_DefaultsHandle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	expected := &entity.VerificationResult{Paid: true, Amount: 15000}
	f.verifier.EXPECT().
		VerifyPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *entity.VerificationRequest) (*entity.VerificationResult, error) {
			require.Equal(t, "oficina", req.Handle, "handle comes from configuration")
			return expected, nil
		})

	result, err := f.svc.VerifyPayment(context.Background(), &entity.VerificationRequest{
		OrderNSU:       "ord-1",
		TransactionNSU: "txn-1",
		Slug:           "slug-1",
	})
	require.NoError(t, err)
	require.Equal(t, expected, result)
}

func TestVerifyPayment_MissingFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.VerifyPayment(context.Background(), &entity.VerificationRequest{
		OrderNSU: "ord-1",
	})
	require.ErrorIs(t, err, entity.ErrInvalidData)
}

func TestHandleMercadoPagoWebhook_Approved(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	detail := &entity.PaymentDetail{
		Provider:  "mercadopago",
		PaymentID: "12345",
		Status:    entity.StatusApproved,
		Amount:    15000,
	}
	f.fetcher.EXPECT().GetPayment(gomock.Any(), "12345").Return(detail, nil)

	notified := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), detail).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(notified)
			return nil
		})

	recorded := make(chan struct{})
	f.ledger.EXPECT().
		RecordPayment(gomock.Any(), detail).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(recorded)
			return nil
		})

	require.NoError(t, f.svc.HandleMercadoPagoWebhook(context.Background(), "12345"))

	for name, ch := range map[string]chan struct{}{"sink": notified, "ledger": recorded} {
		select {
		case <-ch:
		case <-time.After(_sinkWait):
			t.Fatalf("%s was not invoked", name)
		}
	}
}

func TestHandleMercadoPagoWebhook_RejectedSkipsLedger(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	detail := &entity.PaymentDetail{
		Provider:  "mercadopago",
		PaymentID: "777",
		Status:    entity.StatusRejected,
	}
	f.fetcher.EXPECT().GetPayment(gomock.Any(), "777").Return(detail, nil)

	notified := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), detail).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(notified)
			return nil
		})
	// ledger expectation deliberately absent

	require.NoError(t, f.svc.HandleMercadoPagoWebhook(context.Background(), "777"))

	select {
	case <-notified:
	case <-time.After(_sinkWait):
		t.Fatal("payment sink was not notified")
	}
}

func TestHandleMercadoPagoWebhook_Duplicate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	detail := &entity.PaymentDetail{PaymentID: "42", Status: entity.StatusPending}
	f.fetcher.EXPECT().GetPayment(gomock.Any(), "42").Return(detail, nil).Times(2)

	notified := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), detail).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(notified)
			return nil
		}).
		Times(1)

	require.NoError(t, f.svc.HandleMercadoPagoWebhook(context.Background(), "42"))
	require.ErrorIs(t,
		f.svc.HandleMercadoPagoWebhook(context.Background(), "42"),
		entity.ErrDuplicateEvent)

	select {
	case <-notified:
	case <-time.After(_sinkWait):
		t.Fatal("payment sink was not notified")
	}
}

func TestHandleMercadoPagoWebhook_StatusTransitionNotDuplicate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	pending := &entity.PaymentDetail{PaymentID: "55", Status: entity.StatusPending}
	approved := &entity.PaymentDetail{PaymentID: "55", Status: entity.StatusApproved}
	gomock.InOrder(
		f.fetcher.EXPECT().GetPayment(gomock.Any(), "55").Return(pending, nil),
		f.fetcher.EXPECT().GetPayment(gomock.Any(), "55").Return(approved, nil),
	)

	notifiedPending := make(chan struct{})
	notifiedApproved := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), pending).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(notifiedPending)
			return nil
		})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), approved).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(notifiedApproved)
			return nil
		})

	recorded := make(chan struct{})
	f.ledger.EXPECT().
		RecordPayment(gomock.Any(), approved).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(recorded)
			return nil
		})

	require.NoError(t, f.svc.HandleMercadoPagoWebhook(context.Background(), "55"))
	require.NoError(t, f.svc.HandleMercadoPagoWebhook(context.Background(), "55"))

	for name, ch := range map[string]chan struct{}{
		"pending sink":  notifiedPending,
		"approved sink": notifiedApproved,
		"ledger":        recorded,
	} {
		select {
		case <-ch:
		case <-time.After(_sinkWait):
			t.Fatalf("%s was not invoked", name)
		}
	}
}

func TestHandleMercadoPagoWebhook_FetchError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	fetchErr := errors.New("lookup failed")
	f.fetcher.EXPECT().GetPayment(gomock.Any(), "99").Return(nil, fetchErr)

	err := f.svc.HandleMercadoPagoWebhook(context.Background(), "99")
	require.ErrorIs(t, err, fetchErr)
}

func TestHandleMercadoPagoWebhook_RedeliveryAfterFetchError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	detail := &entity.PaymentDetail{PaymentID: "p-500", Status: entity.StatusApproved}
	gomock.InOrder(
		f.fetcher.EXPECT().GetPayment(gomock.Any(), "p-500").Return(nil, errors.New("lookup failed")),
		f.fetcher.EXPECT().GetPayment(gomock.Any(), "p-500").Return(detail, nil),
	)

	notified := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), detail).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(notified)
			return nil
		})
	recorded := make(chan struct{})
	f.ledger.EXPECT().
		RecordPayment(gomock.Any(), detail).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(recorded)
			return nil
		})

	require.Error(t, f.svc.HandleMercadoPagoWebhook(context.Background(), "p-500"))

	// the failed lookup must not consume the dedupe slot
	err := f.svc.HandleMercadoPagoWebhook(context.Background(), "p-500")
	require.NotErrorIs(t, err, entity.ErrDuplicateEvent)
	require.NoError(t, err)

	for name, ch := range map[string]chan struct{}{"sink": notified, "ledger": recorded} {
		select {
		case <-ch:
		case <-time.After(_sinkWait):
			t.Fatalf("%s was not invoked", name)
		}
	}
}

func TestHandleInfinitePayWebhook_Paid(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	notified := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, detail *entity.PaymentDetail) error {
			require.Equal(t, "infinitepay", detail.Provider)
			require.Equal(t, entity.StatusPaid, detail.Status)
			require.Equal(t, "txn-7", detail.PaymentID)
			close(notified)
			return nil
		})

	recorded := make(chan struct{})
	f.ledger.EXPECT().
		RecordPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(recorded)
			return nil
		})

	err := f.svc.HandleInfinitePayWebhook(context.Background(), &entity.InfinitePayWebhook{
		InvoiceSlug:    "slug-1",
		TransactionNSU: "txn-7",
		OrderNSU:       "ord-1",
		Amount:         15000,
		PaidAmount:     15000,
	})
	require.NoError(t, err)

	for name, ch := range map[string]chan struct{}{"sink": notified, "ledger": recorded} {
		select {
		case <-ch:
		case <-time.After(_sinkWait):
			t.Fatalf("%s was not invoked", name)
		}
	}
}

func TestHandleInfinitePayWebhook_Duplicate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	notified := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(notified)
			return nil
		}).
		Times(1)
	f.ledger.EXPECT().
		RecordPayment(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	hook := &entity.InfinitePayWebhook{
		InvoiceSlug:    "slug-1",
		TransactionNSU: "txn-dup",
		OrderNSU:       "ord-1",
	}

	require.NoError(t, f.svc.HandleInfinitePayWebhook(context.Background(), hook))
	require.ErrorIs(t,
		f.svc.HandleInfinitePayWebhook(context.Background(), hook),
		entity.ErrDuplicateEvent)

	select {
	case <-notified:
	case <-time.After(_sinkWait):
		t.Fatal("payment sink was not notified")
	}
}

func TestHandleAbacateWebhook_Paid(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	notified := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, detail *entity.PaymentDetail) error {
			require.Equal(t, "abacatepay", detail.Provider)
			require.Equal(t, entity.StatusPaid, detail.Status)
			require.Equal(t, "Maria", detail.PayerName)
			close(notified)
			return nil
		})

	recorded := make(chan struct{})
	f.ledger.EXPECT().
		RecordPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *entity.PaymentDetail) error {
			close(recorded)
			return nil
		})

	err := f.svc.HandleAbacateWebhook(context.Background(), &entity.AbacateWebhook{
		Event: "billing.paid",
		Charge: &entity.AbacateCharge{
			ID:       "bill_1",
			Status:   "PAID",
			Amount:   15000,
			Customer: entity.AbacateCustomer{Name: "Maria", Email: "m@x.com"},
		},
	})
	require.NoError(t, err)

	for name, ch := range map[string]chan struct{}{"sink": notified, "ledger": recorded} {
		select {
		case <-ch:
		case <-time.After(_sinkWait):
			t.Fatalf("%s was not invoked", name)
		}
	}
}

func TestHandleAbacateWebhook_BillingKeyAccepted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	notified := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, detail *entity.PaymentDetail) error {
			require.Equal(t, entity.StatusRejected, detail.Status)
			close(notified)
			return nil
		})
	// billing.failed never reaches the ledger

	err := f.svc.HandleAbacateWebhook(context.Background(), &entity.AbacateWebhook{
		Event:   "billing.failed",
		Billing: &entity.AbacateCharge{ID: "bill_2", Amount: 15000},
	})
	require.NoError(t, err)

	select {
	case <-notified:
	case <-time.After(_sinkWait):
		t.Fatal("payment sink was not notified")
	}
}

func TestHandleAbacateWebhook_DataEnvelopeShape(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	notified := make(chan struct{})
	f.payment.EXPECT().
		NotifyPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, detail *entity.PaymentDetail) error {
			require.Equal(t, "p1", detail.PaymentID)
			require.Equal(t, entity.StatusPaid, detail.Status)
			close(notified)
			return nil
		}).
		Times(1)
	f.ledger.EXPECT().RecordPayment(gomock.Any(), gomock.Any()).Return(nil)

	err := f.svc.HandleAbacateWebhook(context.Background(), &entity.AbacateWebhook{
		Event: "payment.confirmed",
		Data: &entity.AbacateData{
			Payment: &entity.AbacatePaymentRef{ID: "p1", Status: "approved"},
			Order:   &entity.AbacateOrderRef{ExternalID: "o1"},
		},
	})
	require.NoError(t, err)

	select {
	case <-notified:
	case <-time.After(_sinkWait):
		t.Fatal("payment sink was not notified")
	}
}

func TestHandleAbacateWebhook_NoCharge(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.svc.HandleAbacateWebhook(context.Background(), &entity.AbacateWebhook{
		Event: "billing.paid",
	})
	require.ErrorIs(t, err, entity.ErrMalformedPayload)
}
