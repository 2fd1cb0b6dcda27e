package app

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/ledger"
	"github.com/caiomioto2/workshop-athena-checkout/internal/notify"
	"github.com/caiomioto2/workshop-athena-checkout/internal/provider"
	"github.com/caiomioto2/workshop-athena-checkout/internal/service"
	httpt "github.com/caiomioto2/workshop-athena-checkout/internal/transport/http"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/cache"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/metric"

	"golang.org/x/sync/errgroup"
)

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	metrics := initMetrics(eg, &cfg.Metrics, log)

	dedupeCache, cacheErr := initCache(&cfg.Cache, log)
	if cacheErr != nil {
		return cacheErr
	}
	defer stopCache(dedupeCache)

	checkoutService, svcErr := initCheckoutService(cfg, dedupeCache, log, metrics)
	if svcErr != nil {
		return svcErr
	}

	if serverErr := initHTTPServer(ctx, eg, cfg, checkoutService, log, metrics); serverErr != nil {
		return serverErr
	}

	return waitForShutdown(eg)
}

func initMetrics(
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) metric.Factory {
	metrics := metric.NewFactory()

	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	metricsServer := &http.Server{
		Addr:              hostPort,
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("app.initMetrics: %w", err)
		}
		return nil
	})

	return metrics
}

func initCache(
	cfg *config.Cache,
	log logger.Logger,
) (cache.Cache[string, bool], error) {
	dedupeCache, err := cache.NewTTLCache[string, bool](
		cfg.Capacity,
		log.With("component", "dedupe cache"),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initCache: %w", err)
	}
	dedupeCache.StartCleanup(cfg.CleanupInterval)
	return dedupeCache, nil
}

func stopCache(dedupeCache cache.Cache[string, bool]) {
	if dedupeCache != nil {
		dedupeCache.StopCleanup()
	}
}

func initCheckoutService(
	cfg *config.Config,
	dedupeCache cache.Cache[string, bool],
	log logger.Logger,
	metrics metric.Factory,
) (*service.CheckoutService, error) {
	gateway, err := provider.ForName(
		cfg.Checkout.Provider,
		cfg,
		log.With("component", "gateway"),
		metrics.Provider(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initCheckoutService: %w", err)
	}

	// payment_check and payment lookup are provider specific; wire
	// them regardless of which gateway fronts checkout so webhooks
	// from either provider stay serviceable
	infinitePay := provider.NewInfinitePay(cfg, log.With("component", "infinitepay"), metrics.Provider())
	mercadoPago := provider.NewMercadoPago(cfg, log.With("component", "mercadopago"), metrics.Provider())

	telegram := notify.NewTelegram(cfg, log.With("component", "telegram"), metrics.SideEffect())
	webhook := notify.NewWebhook(cfg, log.With("component", "notify webhook"), metrics.SideEffect())
	crm := ledger.NewNotion(cfg, log.With("component", "notion"), metrics.SideEffect())

	checkoutService := service.NewCheckoutService(
		cfg,
		gateway,
		infinitePay,
		mercadoPago,
		[]service.CheckoutSink{telegram, webhook},
		telegram,
		crm,
		dedupeCache,
		log.With("component", "checkout service"),
	)

	return checkoutService, nil
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	checkoutService *service.CheckoutService,
	log logger.Logger,
	metrics metric.Factory,
) error {
	httpServer, err := httpt.NewHTTPServer(
		httpt.NewCheckoutHandler(checkoutService, log, metrics.HTTP(), cfg.Checkout.Debug),
		&cfg.HTTP,
		log.With("component", "http server"),
	)
	if err != nil {
		return fmt.Errorf("app.initHTTPServer: %w", err)
	}

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
	return nil
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !isShutdownSignal(err) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}

func isShutdownSignal(err error) bool {
	return err != nil && err.Error() == "shutdown signal"
}
