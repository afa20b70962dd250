package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ultraverse/market-web/internal/config"
	"github.com/ultraverse/market-web/internal/handlers"
	"github.com/ultraverse/market-web/internal/normalize"
	"github.com/ultraverse/market-web/internal/services"
	"github.com/ultraverse/market-web/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	defaults := normalize.Defaults{
		ItemImage:   cfg.Assets.ItemImage,
		AuthorImage: cfg.Assets.AuthorImage,
		Name:        "Unknown",
		Username:    "@creator",
		Wallet:      cfg.Assets.PlaceholderWallet,
		Followers:   cfg.Assets.DefaultFollowers,
		Token:       cfg.Assets.DefaultToken,
	}

	api := upstream.NewClient(
		cfg.Upstream.BaseURL,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second,
		log.Named("upstream"),
	)
	catalog := services.NewCatalogService(api, defaults, log.Named("catalog"))
	profile := services.NewProfileService(api, defaults, log.Named("profile"))

	renderer, err := handlers.NewRenderer(cfg.Server.TemplatesDir, log.Named("render"))
	if err != nil {
		log.Fatal("parse templates", zap.Error(err))
	}

	hub := handlers.NewHub(log.Named("live"))
	go hub.Run()

	router := handlers.NewRouter(renderer, catalog, profile, hub, cfg.Server.StaticDir, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0, // the live socket holds its connection open
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("upstream", cfg.Upstream.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
}

// newLogger builds a JSON logger at the configured level
func newLogger(level string) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zapcore.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return cfg.Build()
}
