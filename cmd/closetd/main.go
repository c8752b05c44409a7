// closetd serves closet configuration sessions, saved designs and exports
// over HTTP.
//
// Settings come from the environment: PORT, ENV, READ_TIMEOUT,
// WRITE_TIMEOUT, DB_PATH, CATALOG_PATH, LOG_LEVEL and LOG_FORMAT.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/ClosetCraft/internal/catalog"
	"github.com/piwi3910/ClosetCraft/internal/config"
	"github.com/piwi3910/ClosetCraft/internal/logging"
	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/project"
	"github.com/piwi3910/ClosetCraft/internal/server"
	"github.com/piwi3910/ClosetCraft/internal/session"
	"github.com/piwi3910/ClosetCraft/internal/store"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("closetd stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	appCfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logger.Warn("using default settings", "error", err)
		appCfg = model.DefaultAppConfig()
	}
	profiles, err := project.LoadCustomProfiles(project.DefaultProfilesPath())
	if err != nil {
		logger.Warn("ignoring custom gcode profiles", "error", err)
	}

	designs, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer designs.Close()

	mgr := session.NewManager(cat, catalog.NewAssets(cat), logger)
	srv := server.New(mgr, designs, server.Options{
		AppName:      "ClosetCraft",
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		AccessLog:    !cfg.IsProduction(),
		Defaults:     appCfg,
		Profiles:     profiles,
		Logger:       logger,
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting closetd", "addr", cfg.Addr(), "env", cfg.Environment, "db", cfg.DBPath)
		errc <- srv.Listen(cfg.Addr())
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
		return srv.Shutdown()
	}
}

func loadCatalog(path string) (*model.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
