package ui

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planboard/internal/db"
	"github.com/javiermolinar/planboard/internal/server"
	"github.com/javiermolinar/planboard/internal/slot"
	"github.com/javiermolinar/planboard/internal/task"
)

func (a *App) serveCmd() *cobra.Command {
	var addr, dbPath, seedPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduling backend",
		Long: `Serve the board over HTTP. The backend owns the schedule: it stores
tasks in SQLite, resolves collisions on every move and resize, and reloads
its data from a TOML seed file (or the built-in demo board).

An empty database is seeded on startup.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.config.Server.Addr
			}
			if dbPath == "" {
				dbPath = a.config.Storage.DBPath
			}
			if seedPath == "" {
				seedPath = a.config.Server.SeedPath
			}

			repo, err := db.New(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer func() { _ = repo.Close() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g := a.config.Geometry()
			seed := seeder(seedPath, g)
			seeded, err := ensureSeeded(ctx, repo, seed)
			if err != nil {
				return err
			}
			if seeded {
				log.Printf("seeded empty database %s", dbPath)
			}

			srv := server.New(repo, server.Options{Geometry: g, Seed: seed})
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default from storage.db_path)")
	cmd.Flags().StringVar(&seedPath, "seed", "", "TOML seed file used by reload (default: demo board)")
	return cmd
}

// seeder loads the seed file at path, or the demo board when path is empty.
func seeder(path string, g slot.Geometry) server.Seeder {
	return func(context.Context) (*task.Snapshot, error) {
		if path == "" {
			return db.DemoSnapshot(), nil
		}
		return db.LoadSeed(path, g)
	}
}

// ensureSeeded fills an empty repository from seed and reports whether it did.
func ensureSeeded(ctx context.Context, repo *db.SQLite, seed server.Seeder) (bool, error) {
	empty, err := repo.Empty(ctx)
	if err != nil {
		return false, fmt.Errorf("checking database: %w", err)
	}
	if !empty {
		return false, nil
	}

	snap, err := seed(ctx)
	if err != nil {
		return false, fmt.Errorf("loading seed: %w", err)
	}
	if err := repo.Replace(ctx, snap); err != nil {
		return false, fmt.Errorf("seeding database: %w", err)
	}
	return true, nil
}
