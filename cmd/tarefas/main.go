package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tarefas/internal/app"
	"tarefas/internal/logging"
	"tarefas/internal/model"
	"tarefas/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tarefas: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}

	if err := logging.Init(cfg.LogFile, cfg.LogLevel); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Opening the store runs all pending migrations; a migration
	// failure aborts startup here, before any command can touch data.
	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return app.New(s, os.Stdout).Run(context.Background(), os.Args[1:])
}
