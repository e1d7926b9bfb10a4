package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fundflow/internal/http/handlers"
	httpapi "fundflow/internal/http/httpapi"
	"fundflow/internal/infra"
	"fundflow/internal/infra/geoip"
	"fundflow/internal/middleware"
	"fundflow/internal/mpesa"
	"fundflow/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
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
	runner := infra.NewSQLRunner(dbpool, logger)

	gateway := mpesa.NewClient(mpesa.Options{
		BaseURL:        cfg.MpesaBaseURL,
		ConsumerKey:    cfg.MpesaConsumerKey,
		ConsumerSecret: cfg.MpesaConsumerSecret,
		Passkey:        cfg.MpesaPasskey,
		ShortCode:      cfg.MpesaShortCode,
		CallbackURL:    cfg.PublicBaseURL + "/api/mpesa-callback",
	})

	var images handlers.ImageStore
	if cfg.StorageBasePath != "" {
		store, err := storage.NewFileStore(cfg.StorageBasePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize image storage")
		}
		images = store
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, donor countries limited to proxy headers")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := handlers.NewApp(runner, gateway, images, logger, cfg)
	router := httpapi.NewRouter(app, logger, cfg, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
