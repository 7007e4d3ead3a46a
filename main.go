package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go"

	"github.com/bjornpagen/donations-webhook/internal/config"
	"github.com/bjornpagen/donations-webhook/internal/logging"
	"github.com/bjornpagen/donations-webhook/internal/notify"
	"github.com/bjornpagen/donations-webhook/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger := logging.New("production")
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.New(cfg.Env)

	stripe.Key = cfg.StripeSecretKey

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recordStore, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up record store")
	}
	defer closeStore()

	handler := createStripeWebhookHandler(stripeWebhook{
		Secret:    cfg.StripeWebhookSecret,
		Tolerance: cfg.WebhookTolerance,
		Store:     recordStore,
		Notifier:  newNotifier(cfg, logger),
		Logger:    logger,
	})
	server := newHTTPServer(cfg, newRouter(logger, cfg.RateLimitPerMinute, handler))

	go func() {
		logger.Info().Str("port", cfg.Port).Bool("tls", cfg.TLSDomain != "").Msg("webhook server listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	grace := cfg.IdleTimeout
	if grace <= 0 {
		grace = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (store.Store, func(), error) {
	if cfg.UsePostgres() {
		pool, err := store.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("using postgres record store")
		return store.NewPostgres(pool, logger), pool.Close, nil
	}

	s, err := store.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Msg("using supabase record store")
	return s, func() {}, nil
}

func newNotifier(cfg config.Config, logger zerolog.Logger) notify.Notifier {
	if cfg.ResendAPIKey == "" {
		logger.Warn().Msg("RESEND_API_KEY not set, donation emails will only be logged")
		return notify.NewLog(logger)
	}
	return notify.NewResend(cfg.ResendAPIKey, cfg.EmailFrom, logger)
}
