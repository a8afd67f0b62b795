package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hypernova-labs/kassa-sdk/internal/config"
	"github.com/hypernova-labs/kassa-sdk/internal/logging"
	"github.com/hypernova-labs/kassa-sdk/internal/sandbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)

	if cfg.Kassa.ShopID == "" || cfg.Kassa.SecretKey == "" {
		logger.Fatal("KASSA_SHOP_ID and KASSA_SECRET_KEY are required")
	}

	srv := sandbox.New(sandbox.Config{
		ShopID:    cfg.Kassa.ShopID,
		SecretKey: cfg.Kassa.SecretKey,
		BaseURL:   cfg.Sandbox.BaseURL,
		Queues:    cfg.Sandbox.Queues,
	}, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Sandbox.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithField("queues", cfg.Sandbox.Queues).Infof("Sandbox listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting sandbox: %v", err)
		}
	}()

	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Sandbox forced to shutdown: %v", err)
	}
	logger.Info("Sandbox exited")
}
