package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cutoffrank/internal"
	"cutoffrank/internal/config"
	"cutoffrank/internal/container"
	"cutoffrank/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Info("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		internal.DefaultLogger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.Log.Level))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(appConfig)
	if err != nil {
		internal.DefaultLogger.Error("Failed to create container: %v", err)
		os.Exit(1)
	}

	var server *ui.Server
	if loadErr := c.Init(ctx); loadErr != nil {
		// Serve the load error on every route
		server, err = ui.NewUnavailableServer(loadErr)
	} else {
		c.StartBackground(ctx)
		server, err = ui.NewServer(c.Service)
	}
	if err != nil {
		internal.DefaultLogger.Error("Failed to initialize web server: %v", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		internal.DefaultLogger.Info("Starting %s on http://localhost%s", ui.Title, httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			internal.DefaultLogger.Error("ListenAndServe: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	internal.DefaultLogger.Info("Signalled, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		internal.DefaultLogger.Warn("Shutdown: %v", err)
	}
}
