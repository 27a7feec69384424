package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"jobboard/internal/adapter/repo"
	"jobboard/internal/infra"
	"jobboard/internal/payout"
	"jobboard/internal/whop"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	gateway, err := whop.NewClient(whop.ClientOptions{
		APIKey:    cfg.WhopAPIKey,
		BaseURL:   cfg.WhopBaseURL,
		CompanyID: cfg.WhopCompanyID,
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gateway client")
	}

	processor := payout.NewProcessor(payout.Options{
		Tasks:       repo.NewPayoutTaskRepository(dbpool),
		Gateway:     gateway,
		Logger:      logger,
		MaxAttempts: cfg.PayoutMaxRetries,
	})

	logger.Info().Msg("payout worker started")
	if err := processor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("payout worker failed")
	}
	logger.Info().Msg("payout worker stopped")
}
