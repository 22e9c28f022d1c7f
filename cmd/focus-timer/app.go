package main

import (
	"fmt"
	"strings"

	"github.com/0xmhha/focus-timer/pkg/config"
	"github.com/0xmhha/focus-timer/pkg/display"
	"github.com/0xmhha/focus-timer/pkg/ledger"
	"github.com/0xmhha/focus-timer/pkg/logger"
	"github.com/0xmhha/focus-timer/pkg/storage"
)

// app holds the components shared by commands.
type app struct {
	loader config.Loader
	cfg    *config.Config
	log    logger.Logger
	store  storage.Store
	ledger ledger.Ledger
}

// loadConfig loads configuration and creates the logger.
func loadConfig(configPath string) (config.Loader, *config.Config, logger.Logger, error) {
	loader := config.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	return loader, cfg, log, nil
}

// openApp loads configuration and opens the session ledger.
func openApp(configPath string) (*app, error) {
	loader, cfg, log, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewBolt(storage.Config{
		DBPath:  cfg.Storage.DBPath,
		Timeout: cfg.Storage.Timeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	led, err := ledger.New(ledger.Config{
		Key: cfg.Storage.Key,
	}, store, log)
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("failed to close store", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}

	return &app{
		loader: loader,
		cfg:    cfg,
		log:    log,
		store:  store,
		ledger: led,
	}, nil
}

// Close releases the store.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("failed to close store", "error", err)
	}
}

// formatter returns a display formatter honoring the configured default
// format when format is empty.
func (a *app) formatter(format string, compact bool) (display.Formatter, error) {
	if strings.TrimSpace(format) == "" {
		format = a.cfg.Display.DefaultFormat
	}

	f, err := display.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return display.New(display.Config{
		Format:         f,
		Color:          a.cfg.Display.ColorEnabled && isTerminal(),
		ShowTimestamps: true,
		Compact:        compact,
	}), nil
}
