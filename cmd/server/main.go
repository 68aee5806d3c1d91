package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/parchment-games/hexcrawl/internal/config"
	"github.com/parchment-games/hexcrawl/internal/server"
	"github.com/parchment-games/hexcrawl/pkg/logger"
)

func main() {
	logger.Init()
	logger.Log.Info("Starting Hexcrawl Campaign Server...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Log.WithField("path", configPath).Info("Configuration loaded")

	srv, err := server.New(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create server")
	}

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := srv.Start(addr); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Log.WithError(err).Fatal("Server error")
	case sig := <-sigChan:
		logger.Log.WithField("signal", sig.String()).Info("Shutting down...")
	}

	if err := srv.Shutdown(); err != nil {
		logger.Log.WithError(err).Warn("Error during shutdown")
	}
	logger.Log.Info("Server stopped")
}
