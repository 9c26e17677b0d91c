// Package main is the entry point for the taskcal TUI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/temperhq/taskcal/internal/app"
	"github.com/temperhq/taskcal/internal/backend/supabase"
	"github.com/temperhq/taskcal/internal/cache"
	"github.com/temperhq/taskcal/internal/model"
	"github.com/temperhq/taskcal/internal/session"
	"github.com/temperhq/taskcal/internal/source/gcal"
	"github.com/temperhq/taskcal/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "taskcal:", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env in the working directory is a convenience for development;
	// missing is fine.
	_ = godotenv.Load()

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// While the TUI owns the terminal, logs go to a file.
	logFile, err := setupLogging()
	if err != nil {
		return err
	}
	defer logFile.Close()

	loc := time.Local
	if cfg.Display.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Display.Timezone)
		if err != nil {
			return fmt.Errorf("loading timezone %q: %w", cfg.Display.Timezone, err)
		}
	}

	backend := supabase.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey)

	manager := session.NewManager(backend, session.KeyringStore{})
	manager.Resolve(context.Background())

	db, err := openCache()
	if err != nil {
		// The cache is an optimization; run without it rather than fail.
		log.Printf("opening cache: %v", err)
	}

	var adapter *store.Adapter
	if db != nil {
		defer db.Close()
		adapter = store.NewAdapter(store.NewRemote(backend), db)
	} else {
		adapter = store.NewAdapter(store.NewRemote(backend), nil)
	}

	loader := gcal.NewLoader(func(ctx context.Context, token string) (gcal.EventLister, error) {
		return gcal.NewClient(ctx, token, loc)
	})

	root := app.New(backend, manager, adapter, loader, cfg.Backend.OAuthRedirectURL, loc)
	p := tea.NewProgram(root, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// setupLogging redirects the standard logger to ~/.config/taskcal/taskcal.log.
func setupLogging() (*os.File, error) {
	dir := filepath.Dir(model.DefaultConfigPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(
		filepath.Join(dir, "taskcal.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	log.SetOutput(f)
	return f, nil
}

func openCache() (*cache.Cache, error) {
	dir := filepath.Dir(model.DefaultConfigPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return cache.Open(filepath.Join(dir, "cache.db"))
}
