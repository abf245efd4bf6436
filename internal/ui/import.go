package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planboard/internal/db"
	"github.com/javiermolinar/planboard/internal/slot"
	"github.com/javiermolinar/planboard/internal/task"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <seed.toml>",
		Short: "Replace the local board with a seed file",
		Long: `Load a TOML seed file into the backend database, replacing all operators,
jobs and tasks. Task start dates are mapped onto slots with the configured
board geometry.

Stop 'planboard serve' first, or use 'planboard reload' against a running
backend started with --seed.

Example:
  planboard import ./workshop.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("seed file does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking seed file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("seed path is a directory: %s", sourcePath)
			}

			repo, err := db.New(destPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer func() { _ = repo.Close() }()

			snap, err := importSeed(context.Background(), repo, sourcePath, a.config.Geometry())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks for %d operators from %s\n",
				len(snap.Tasks), len(snap.Operators), sourcePath)
			return nil
		},
	}

	return cmd
}

func importSeed(ctx context.Context, dest task.Repository, sourcePath string, g slot.Geometry) (*task.Snapshot, error) {
	snap, err := db.LoadSeed(sourcePath, g)
	if err != nil {
		return nil, fmt.Errorf("loading seed: %w", err)
	}
	if err := dest.Replace(ctx, snap); err != nil {
		return nil, fmt.Errorf("replacing board: %w", err)
	}
	return snap, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
