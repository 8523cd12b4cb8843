// Package cli is the interactive papersync client: a small REPL over the
// document facade, standing in for the graphical presentation layer.
package cli

import (
	"context"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/dkarpov/papersync/internal/config"
	"github.com/dkarpov/papersync/internal/connectivity"
	"github.com/dkarpov/papersync/internal/logging"
	"github.com/dkarpov/papersync/internal/remote"
	"github.com/dkarpov/papersync/internal/repositories/documents"
	"github.com/dkarpov/papersync/internal/services"
	"github.com/dkarpov/papersync/internal/syncer"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	docs        services.DocumentService
	coordinator *syncer.Coordinator
	monitor     *connectivity.Monitor
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := documents.Open(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	repo := documents.NewSQLiteRepository(db)
	apiClient := remote.NewHTTPClient(cfg.ServerEndpointAddr, cfg.RequestTimeout)
	monitor := connectivity.NewMonitor(apiClient, cfg.OnlineCheckInterval, logger)

	coordinator := syncer.NewCoordinator(repo, apiClient, monitor, logger, cfg.MaxDeleteAttempts)
	coordinator.Subscribe(monitor)

	return &App{
		config:      cfg,
		log:         logger,
		docs:        services.NewDocumentService(repo, coordinator),
		coordinator: coordinator,
		monitor:     monitor,
	}, nil
}

// Run starts the connectivity monitor, serves the REPL until the user
// exits and then waits for any in-flight sync pass before returning.
func (a *App) Run(ctx context.Context) {
	a.monitor.Start(ctx)
	defer a.coordinator.Wait()
	defer a.monitor.Stop()

	a.Root(ctx)
}
