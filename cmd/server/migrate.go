package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/ahpsurvey/internal/api"
	"github.com/soaringjerry/ahpsurvey/internal/config"
	"github.com/soaringjerry/ahpsurvey/internal/db"
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(cmd.ErrOrStderr())
	if cfg.DBPath == "" {
		return errors.New("AHP_DB_PATH is required")
	}
	if migrateFromSnapshot != "" {
		imported, err := migrateIfNeeded(migrateFromSnapshot, cfg.DBPath, cfg.MigrationsDir, logger)
		if err != nil {
			return err
		}
		if imported {
			return nil
		}
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer conn.Close()
	applied, err := db.RunMigrations(conn, cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
	for _, name := range applied {
		fmt.Fprintln(cmd.OutOrStdout(), "  "+name)
	}
	return nil
}

// migrateIfNeeded creates sqlitePath and fills it from the snapshot at
// snapshotPath. A missing snapshot is an error; an existing database is left
// alone. It reports whether an import happened.
func migrateIfNeeded(snapshotPath, sqlitePath, migrationsDir string, logger *slog.Logger) (bool, error) {
	if sqlitePath == "" {
		return false, errors.New("sqlite path is required")
	}
	if snapshotPath == "" {
		return false, errors.New("snapshot path is required")
	}
	if _, err := os.Stat(snapshotPath); err != nil {
		return false, fmt.Errorf("snapshot %s: %w", snapshotPath, err)
	}
	if _, err := os.Stat(sqlitePath); err == nil {
		logger.Info("sqlite database exists; skipping snapshot import", "path", sqlitePath)
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("check sqlite file: %w", err)
	}

	legacy, err := api.NewMemoryStoreFromPath(snapshotPath)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	snapshot := api.MemoryStoreSnapshot(legacy)
	if snapshot == nil {
		return false, nil
	}

	logger.Info("importing snapshot", "from", snapshotPath, "to", sqlitePath,
		"participants", len(snapshot.Participants), "responses", len(snapshot.Responses))

	conn, err := db.Open(sqlitePath)
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logger.Warn("close sqlite db", "err", cerr)
		}
	}()
	if _, err := db.RunMigrations(conn, migrationsDir); err != nil {
		return false, fmt.Errorf("run migrations: %w", err)
	}
	dst, err := db.NewSQLiteStore(conn)
	if err != nil {
		return false, fmt.Errorf("init sqlite store: %w", err)
	}
	if err := api.CopySnapshot(snapshot, dst); err != nil {
		return false, fmt.Errorf("copy data: %w", err)
	}
	logger.Info("snapshot import completed")
	return true, nil
}
