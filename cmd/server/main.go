package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/advisor"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/config"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/logging"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/router"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/service"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/store"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/ws"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.EnvFile != "" {
		logger.Info("loaded env file", zap.String("path", cfg.EnvFile))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	clk := clock.System{Location: clock.LoadLocation(cfg.Timezone)}

	p, closeStore, err := store.Open(ctx, store.Options{
		Driver:      cfg.StorageDriver,
		DataDir:     cfg.DataDir,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("storage ready", zap.String("driver", cfg.StorageDriver))

	catalog := store.NewCatalog(ctx, p, logger)
	ledger := store.NewLedger(ctx, p, clk, logger)
	profile := store.NewProfileStore(ctx, p, logger)

	var recommender advisor.Advisor
	if cfg.GeminiAPIKey != "" {
		g, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		recommender = g
	} else {
		logger.Warn("GEMINI_API_KEY not set, pricing advice will use the fallback markup")
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	r := router.New(cfg, logger, router.Deps{
		Clock:    clk,
		Catalog:  catalog,
		Ledger:   ledger,
		Profile:  profile,
		Backups:  store.NewBackups(p, catalog, ledger, profile, clk, logger),
		Checkout: service.NewCheckoutService(catalog, ledger, clk, logger),
		Notes:    service.NewExpenseNoteService(ledger, clk, logger),
		Advisor: advisor.NewService(recommender, advisor.Options{
			Timeout:       cfg.AdvisorTimeout,
			RatePerMinute: cfg.AdvisorRatePerMinute,
		}, logger),
		Hub: hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
