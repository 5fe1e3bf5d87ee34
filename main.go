package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"scrub/app"
	"scrub/internal/analysis"
	"scrub/internal/cleaning"
	"scrub/internal/config"
	"scrub/internal/logging"
	"scrub/internal/recommend"
	"scrub/ui"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	logger := logging.NewDefault().WithComponent("main")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration: %v", err)
		os.Exit(1)
	}

	sessions := app.NewSessionService(analysis.NewGenerator(), recommend.NewEngine(), cleaning.NewService())

	webApp, err := ui.NewApp(cfg, sessions, logging.NewDefault())
	if err != nil {
		logger.Error("ui setup: %v", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           webApp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown: %v", err)
	}
}
