package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planboard/internal/config"
	"github.com/javiermolinar/planboard/internal/dateutil"
	"github.com/javiermolinar/planboard/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  planboard config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	printConfig(os.Stdout, cfg)

	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.Board.ServerURL = promptValue(reader, "Backend URL", cfg.Board.ServerURL)
	cfg.Board.AnchorDate = promptDate(reader, "First day of the board (YYYY-MM-DD, empty for today)", cfg.Board.AnchorDate)
	cfg.Board.TotalSlots = promptInt(reader, "Half-day slots on the board", cfg.Board.TotalSlots)
	cfg.Board.SlotWidth = promptInt(reader, "Cells per slot", cfg.Board.SlotWidth)
	cfg.Board.FrozenColumnWidth = promptInt(reader, "Operator column width", cfg.Board.FrozenColumnWidth)
	cfg.Server.Addr = promptValue(reader, "Backend listen address", cfg.Server.Addr)
	cfg.Server.SeedPath = promptValue(reader, "Seed file (empty for the demo board)", cfg.Server.SeedPath)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Odoo.URLTemplate = promptValue(reader, "Odoo URL template ({} is the task id)", cfg.Odoo.URLTemplate)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	anchor := cfg.Board.AnchorDate
	if anchor == "" {
		anchor = "(today)"
	}
	seed := cfg.Server.SeedPath
	if seed == "" {
		seed = "(demo board)"
	}
	odoo := cfg.Odoo.URLTemplate
	if odoo == "" {
		odoo = "(links disabled)"
	}

	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[board]")
	fmt.Fprintf(w, "  server_url          = %s\n", cfg.Board.ServerURL)
	fmt.Fprintf(w, "  anchor_date         = %s\n", anchor)
	fmt.Fprintf(w, "  total_slots         = %d\n", cfg.Board.TotalSlots)
	fmt.Fprintf(w, "  slot_width          = %d\n", cfg.Board.SlotWidth)
	fmt.Fprintf(w, "  frozen_column_width = %d\n", cfg.Board.FrozenColumnWidth)
	fmt.Fprintf(w, "  day_start_hour      = %d\n", cfg.Board.DayStartHour)
	fmt.Fprintf(w, "  pm_start_hour       = %d\n", cfg.Board.PMStartHour)
	fmt.Fprintf(w, "  grace_window        = %s\n", cfg.Board.GraceWindow.D())
	fmt.Fprintf(w, "  hover_delay         = %s\n", cfg.Board.HoverDelay.D())
	fmt.Fprintf(w, "  request_timeout     = %s\n", cfg.Board.RequestTimeout.D())
	fmt.Fprintln(w, "\n[server]")
	fmt.Fprintf(w, "  addr                = %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "  seed_path           = %s\n", seed)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path             = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme               = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[odoo]")
	fmt.Fprintf(w, "  url_template        = %s\n", odoo)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
		fmt.Printf("  Invalid number %q.\n", value)
	}
}

func promptDate(reader *bufio.Reader, label, current string) string {
	for {
		value := promptValue(reader, label, current)
		if value == "" {
			return ""
		}
		if _, err := dateutil.ParseDate(value); err == nil {
			return value
		}
		fmt.Printf("  Invalid date %q.\n", value)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s, or a file in %s)", options, theme.UserDir())
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value, theme.UserDir()) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
