package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"jobboard/internal/adapter/repo"
	"jobboard/internal/db"
	"jobboard/internal/http/handlers"
	"jobboard/internal/http/httpapi"
	"jobboard/internal/infra"
	"jobboard/internal/infra/geoip"
	"jobboard/internal/lifecycle"
	"jobboard/internal/middleware"
	"jobboard/internal/storage"
	"jobboard/internal/whop"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate schema")
	}

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open artifact storage")
	}

	gateway, err := whop.NewClient(whop.ClientOptions{
		APIKey:    cfg.WhopAPIKey,
		BaseURL:   cfg.WhopBaseURL,
		CompanyID: cfg.WhopCompanyID,
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gateway client")
	}

	engine := lifecycle.NewEngine(lifecycle.Options{
		Jobs:        repo.NewJobRepository(dbpool),
		Submissions: repo.NewSubmissionRepository(dbpool),
		Payouts:     repo.NewPayoutTaskRepository(dbpool),
		Gateway:     gateway,
		Store:       store,
		Logger:      logger,
		FeeBps:      cfg.PlatformFeeBps,
		RedirectURL: cfg.AppBaseURL + "/my-jobs",
	})

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	app := handlers.NewApp(engine, logger, cfg.WebhookSecret, cfg.AppBaseURL)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		Verifier:        whop.NewIdentity(cfg.AppSecret),
		CountryLookup:   countryLookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CORSOrigins:     cfg.CORSOrigins,
		StoragePath:     cfg.StoragePath,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
