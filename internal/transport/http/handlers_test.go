package httpt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/internal/notify"
	"github.com/caiomioto2/workshop-athena-checkout/internal/provider"
	"github.com/caiomioto2/workshop-athena-checkout/internal/service"
	httpt "github.com/caiomioto2/workshop-athena-checkout/internal/transport/http"
	mock_httpt "github.com/caiomioto2/workshop-athena-checkout/internal/transport/http/mock"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/cache"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
	mock_logger "github.com/caiomioto2/workshop-athena-checkout/pkg/logger/mock"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/metric"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger(t *testing.T) logger.Logger {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mock_logger.NewMockLogger(ctrl)
	log.EXPECT().Ctx(gomock.Any()).Return(log).AnyTimes()
	log.EXPECT().LogAttrs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Infow(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warnw(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Errorw(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Debugw(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().GenerateRequestID().Return("test-request-id").AnyTimes()
	log.EXPECT().
		WithRequestID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) context.Context { return ctx }).
		AnyTimes()
	return log
}

func newHandler(t *testing.T, svc httpt.CheckoutService) *httpt.CheckoutHandler {
	t.Helper()
	return httpt.NewCheckoutHandler(svc, testLogger(t), metric.NewFactory().HTTP(), false)
}

func doJSON(t *testing.T, h *httpt.CheckoutHandler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateCheckout_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		CreateCheckout(gomock.Any(), gomock.Any()).
		Return(&entity.ChargeResult{
			Provider:   "abacatepay",
			BillingID:  "abc123",
			PaymentURL: "https://pay/x",
			QRCode:     "000201pix",
			QRCodeURL:  "https://img/qr.png",
			Amount:     15000,
		}, nil)

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/checkout", map[string]any{
		"name":  "Maria Souza",
		"email": "maria@example.com",
		"phone": "11999998888",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, "abc123", body["billingId"])
	require.Equal(t, "https://pay/x", body["paymentUrl"])
	require.Equal(t, "000201pix", body["qrCode"])
	require.Equal(t, "https://img/qr.png", body["qrCodeUrl"])
	require.InDelta(t, 15000, body["amount"], 0.001)
}

func TestCreateCheckout_ValidationError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		CreateCheckout(gomock.Any(), gomock.Any()).
		Return(nil, &entity.ValidationError{Field: "email", Message: "Email inválido"})

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/checkout", map[string]any{
		"name": "x", "email": "bad", "phone": "11999998888",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Email inválido", body["error"])
	require.Equal(t, "email", body["field"])
}

func TestCreateCheckout_ProviderRejection(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		CreateCheckout(gomock.Any(), gomock.Any()).
		Return(nil, &entity.ProviderError{Provider: "abacatepay", Status: 422, Body: `{"error":"x"}`})

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/checkout", map[string]any{
		"name": "x", "email": "a@b.co", "phone": "11999998888",
	})

	// the provider's status and error text pass through
	require.Equal(t, 422, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"])
	require.Contains(t, body["error"], `{"error":"x"}`)
	// debug off: structured provider fields never leak
	require.NotContains(t, body, "detail")
	require.NotContains(t, body, "provider_status")
}

func TestCreateCheckout_ProviderStatusOutOfRange(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		CreateCheckout(gomock.Any(), gomock.Any()).
		Return(nil, &entity.ProviderError{Provider: "abacatepay", Status: 0, Body: "connection reset"})

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/checkout", map[string]any{
		"name": "x", "email": "a@b.co", "phone": "11999998888",
	})

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCreateCheckout_MalformedBody(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)
	h := newHandler(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyPayment_Post(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		VerifyPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *entity.VerificationRequest) (*entity.VerificationResult, error) {
			require.Equal(t, "ord-1", req.OrderNSU)
			return &entity.VerificationResult{Paid: true, Amount: 15000}, nil
		})

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/checkout/verify", map[string]any{
		"handle": "oficina", "order_nsu": "ord-1", "transaction_nsu": "txn-1", "slug": "s-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, true, body["paid"])
}

func TestVerifyPayment_GetQueryParams(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		VerifyPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *entity.VerificationRequest) (*entity.VerificationResult, error) {
			require.Equal(t, "txn-9", req.TransactionNSU)
			require.Equal(t, "slug-9", req.Slug)
			return &entity.VerificationResult{Paid: false}, nil
		})

	rec := doJSON(t, newHandler(t, svc), http.MethodGet,
		"/api/checkout/verify?handle=oficina&order_nsu=ord-9&transaction_nsu=txn-9&slug=slug-9", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["paid"])
}

func TestInfinitePayWebhook_MissingIdentifiers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)
	// service must never be reached

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/infinitepay/webhook", map[string]any{
		"invoice_slug": "slug-1",
		"amount":       15000,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"])
	require.Contains(t, body["missing"], "transaction_nsu")
	require.Contains(t, body["missing"], "order_nsu")
}

func TestInfinitePayWebhook_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		HandleInfinitePayWebhook(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, hook *entity.InfinitePayWebhook) error {
			require.Equal(t, "txn-7", hook.TransactionNSU)
			return nil
		})

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/infinitepay/webhook", map[string]any{
		"invoice_slug":    "slug-1",
		"order_nsu":       "ord-1",
		"transaction_nsu": "txn-7",
		"amount":          15000,
		"paid_amount":     15000,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestInfinitePayWebhook_DuplicateStillOK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		HandleInfinitePayWebhook(gomock.Any(), gomock.Any()).
		Return(entity.ErrDuplicateEvent)

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/infinitepay/webhook", map[string]any{
		"invoice_slug": "s", "order_nsu": "o", "transaction_nsu": "t",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, true, body["duplicate"])
}

func TestInfinitePayWebhook_GetLiveness(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	rec := doJSON(t, newHandler(t, svc), http.MethodGet, "/api/infinitepay/webhook", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "webhook endpoint active", decodeBody(t, rec)["status"])
}

func TestMercadoPagoWebhook_BodyPointer(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().HandleMercadoPagoWebhook(gomock.Any(), "12345").Return(nil)

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/mercadopago/webhook", map[string]any{
		"type": "payment",
		"data": map[string]any{"id": "12345"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["received"])
}

func TestMercadoPagoWebhook_QueryPointer(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().HandleMercadoPagoWebhook(gomock.Any(), "9876").Return(nil)

	rec := doJSON(t, newHandler(t, svc), http.MethodPost,
		"/api/mercadopago/webhook?topic=payment&id=9876", nil)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMercadoPagoWebhook_NonPaymentTopicIgnored(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)
	// service must never be reached for merchant_order topics

	rec := doJSON(t, newHandler(t, svc), http.MethodPost,
		"/api/mercadopago/webhook?topic=merchant_order&id=555", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["received"])
}

func TestMercadoPagoWebhook_ProcessingErrorStill200(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		HandleMercadoPagoWebhook(gomock.Any(), "1").
		Return(&entity.ProviderError{Provider: "mercadopago", Status: 500, Body: "boom"})

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/mercadopago/webhook", map[string]any{
		"type": "payment",
		"data": map[string]any{"id": "1"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["received"])
}

func TestAbacateWebhook_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		HandleAbacateWebhook(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, hook *entity.AbacateWebhook) error {
			require.Equal(t, "billing.paid", hook.Event)
			require.NotNil(t, hook.ChargeOf())
			return nil
		})

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/abacatepay/webhook", map[string]any{
		"event": "billing.paid",
		"billing": map[string]any{
			"id": "bill_1", "status": "PAID", "amount": 15000,
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["received"])
}

func TestAbacateWebhook_NoCharge400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	svc.EXPECT().
		HandleAbacateWebhook(gomock.Any(), gomock.Any()).
		Return(entity.ErrMalformedPayload)

	rec := doJSON(t, newHandler(t, svc), http.MethodPost, "/api/abacatepay/webhook", map[string]any{
		"event": "billing.paid",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mock_httpt.NewMockCheckoutService(ctrl)

	rec := doJSON(t, newHandler(t, svc), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

// full-stack scenario: real service, real gateway, counting sinks

func newFullStack(t *testing.T, cfg *config.Config) *httpt.CheckoutHandler {
	t.Helper()

	log := testLogger(t)
	factory := metric.NewFactory()

	gateway, err := provider.ForName(cfg.Checkout.Provider, cfg, log, factory.Provider())
	require.NoError(t, err)

	dedupe, err := cache.NewTTLCache[string, bool](100, log)
	require.NoError(t, err)

	telegram := notify.NewTelegram(cfg, log, factory.SideEffect())

	svc := service.NewCheckoutService(
		cfg,
		gateway,
		nil,
		nil,
		[]service.CheckoutSink{telegram},
		telegram,
		nil,
		dedupe,
		log,
	)

	return httpt.NewCheckoutHandler(svc, log, factory.HTTP(), false)
}

func TestCheckout_FullStack_AbacatePay(t *testing.T) {
	t.Parallel()

	var telegramCalls atomic.Int64
	telegramSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		telegramCalls.Add(1)
		w.Write([]byte(`{"ok": true}`))
	}))
	defer telegramSrv.Close()

	providerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/billing/create", r.URL.Path)
		w.Write([]byte(`{
			"data": {
				"id": "abc123",
				"url": "https://pay/x",
				"pix": {"qrCode": "000201pix", "qrCodeUrl": "https://img/qr.png"}
			}
		}`))
	}))
	defer providerSrv.Close()

	cfg := &config.Config{
		Cache: config.Cache{TTL: time.Hour},
		Checkout: config.Checkout{
			Provider:    "abacatepay",
			ProductName: "Oficina",
			PriceCents:  15000,
			BaseURL:     "https://workshop.example.com",
		},
		AbacatePay: config.AbacatePay{APIKey: "key", BaseURL: providerSrv.URL},
		Telegram:   config.Telegram{BotToken: "tok", ChatID: "1", BaseURL: telegramSrv.URL},
	}

	h := newFullStack(t, cfg)

	rec := doJSON(t, h, http.MethodPost, "/api/checkout", map[string]any{
		"name":     "Maria Souza",
		"email":    "maria@example.com",
		"phone":    "(11) 99999-8888",
		"document": "111.444.777-35",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, "abc123", body["billingId"])
	require.Equal(t, "000201pix", body["qrCode"])

	require.Eventually(t, func() bool {
		return telegramCalls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond, "exactly one notification attempt")
}

func TestCheckout_FullStack_MissingAPIKey(t *testing.T) {
	t.Parallel()

	var outbound atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		outbound.Add(1)
	}))
	defer srv.Close()

	cfg := &config.Config{
		Cache: config.Cache{TTL: time.Hour},
		Checkout: config.Checkout{
			Provider:    "abacatepay",
			ProductName: "Oficina",
			PriceCents:  15000,
			BaseURL:     "https://workshop.example.com",
		},
		// no API key on purpose
		AbacatePay: config.AbacatePay{BaseURL: srv.URL},
		Telegram:   config.Telegram{BotToken: "tok", ChatID: "1", BaseURL: srv.URL},
	}

	h := newFullStack(t, cfg)

	rec := doJSON(t, h, http.MethodPost, "/api/checkout", map[string]any{
		"name":     "Maria Souza",
		"email":    "maria@example.com",
		"phone":    "11999998888",
		"document": "111.444.777-35",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["success"])
	require.Zero(t, outbound.Load(), "no outbound call without credentials")
}
