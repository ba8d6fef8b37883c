package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"skybank/internal/cli"
	apphttp "skybank/internal/http"
	"skybank/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	app := cli.NewApp(context.Background(), logger, cfg)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Home:           app.Home,
		Investment:     app.Investment,
		Reports:        app.Reports,
		Logger:         logger,
		TrustedProxies: cfg.TrustedProxies,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		app.Close()
	})

	logger.Info("Starting skybank server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		app.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
