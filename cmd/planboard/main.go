package main

import (
	"fmt"
	"os"

	"github.com/javiermolinar/planboard/internal/config"
	"github.com/javiermolinar/planboard/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return ui.NewApp(cfg).Execute()
}
