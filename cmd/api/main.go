// Command api serves only the JSON API, without the web pages
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cutoffrank/adapters/api"
	"cutoffrank/internal"
	"cutoffrank/internal/config"
	"cutoffrank/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		internal.DefaultLogger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(appConfig)
	if err != nil {
		internal.DefaultLogger.Error("Failed to create container: %v", err)
		os.Exit(1)
	}
	// Without a dataset there is nothing to serve
	if err := c.Init(ctx); err != nil {
		os.Exit(1)
	}
	c.StartBackground(ctx)

	server := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           api.NewRouter(c.Service),
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		internal.DefaultLogger.Info("Starting API server on %s%s", server.Addr, api.Prefix)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			internal.DefaultLogger.Error("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		internal.DefaultLogger.Warn("Shutdown: %v", err)
	}
}
