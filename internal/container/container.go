package container

import (
	"context"
	"fmt"

	"cutoffrank/adapters/remote"
	"cutoffrank/app"
	"cutoffrank/internal"
	"cutoffrank/internal/config"
	"cutoffrank/internal/session"
	"cutoffrank/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	Loader ports.DatasetLoader
	Store  *session.MemoryStore

	// Application service, nil until Init succeeds
	Service *app.SelectionService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config: cfg,
		Loader: remote.NewLoader(remote.FromDatasetConfig(cfg.Dataset)),
		Store:  session.NewMemoryStore(),
	}, nil
}

// Init loads the dataset and builds the selection service. On failure the
// container keeps a nil Service and the load error is returned.
func (c *Container) Init(ctx context.Context) error {
	svc, err := app.NewSelectionService(ctx, c.Loader, c.Store)
	if err != nil {
		internal.DefaultLogger.Error("[Container] Dataset unavailable: %v", err)
		return err
	}
	c.Service = svc
	internal.DefaultLogger.Info("[Container] Loaded %d rows from %s", svc.Dataset().Len(), c.Config.Dataset.URL)
	return nil
}

// StartBackground runs the session janitor until ctx is done
func (c *Container) StartBackground(ctx context.Context) {
	go c.Store.RunJanitor(ctx, c.Config.Session.SweepInterval, c.Config.Session.TTL)
}

// Ready reports whether the service is available
func (c *Container) Ready() bool {
	return c.Service != nil
}
