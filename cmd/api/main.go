package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"exchange-desk/internal/bootstrap"
	"exchange-desk/internal/config"
	infraconfig "exchange-desk/internal/infrastructure/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	cfg := config.Load()

	app, cleanup, err := bootstrap.BuildApp(cfg)
	if err != nil {
		bootstrap.ProvideLogger().Fatal("bootstrap", zap.Error(err))
	}
	defer cleanup()
	logger := app.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.WaitForUpstream(ctx, app.Upstream.Ping, cfg.UpstreamWait, logger); err != nil {
		// Serve anyway; /readyz keeps reporting the upstream state.
		logger.Warn("exchange api unreachable at startup", zap.Error(err))
	}

	go func() {
		logger.Info("server started",
			zap.String("addr", app.Server.Addr),
			zap.String("provider", cfg.Provider),
			zap.String("generations", cfg.GenerationsBackend),
		)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer cancel()
	_ = app.Server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
