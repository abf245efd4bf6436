// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/planboard/internal/slot"
)

// Config holds the application configuration.
type Config struct {
	Board   BoardConfig   `toml:"board"`
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Odoo    OdooConfig    `toml:"odoo"`
}

// BoardConfig holds the client engine settings.
type BoardConfig struct {
	ServerURL         string     `toml:"server_url"`          // e.g., "http://127.0.0.1:5000"
	SlotWidth         int        `toml:"slot_width"`          // cells per half-day slot
	TotalSlots        int        `toml:"total_slots"`         // length of the slot axis
	AnchorDate        string     `toml:"anchor_date"`         // "2006-01-02", empty means today
	DayStartHour      int        `toml:"day_start_hour"`      // AM slots start here
	PMStartHour       int        `toml:"pm_start_hour"`       // PM slots start here
	FrozenColumnWidth int        `toml:"frozen_column_width"` // operator name column
	GraceWindow       Duration   `toml:"grace_window"`
	SettleDelay       Duration   `toml:"settle_delay"`
	HoverDelay        Duration   `toml:"hover_delay"`
	ResizeRefresh     Duration   `toml:"resize_refresh_delay"`
	FocusRetryDelays  []Duration `toml:"focus_retry_delays"`
	DoubleClickWindow Duration   `toml:"double_click_window"`
	RequestTimeout    Duration   `toml:"request_timeout"`
}

// ServerConfig holds settings for the scheduling backend.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	SeedPath string `toml:"seed_path"` // TOML seed loaded on reload, empty uses the demo data
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// OdooConfig holds the deep-link template.
type OdooConfig struct {
	URLTemplate string `toml:"url_template"` // "{}" is replaced by the task id
}

// Duration is a time.Duration stored as a string such as "500ms".
type Duration time.Duration

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Board: BoardConfig{
			ServerURL:         "http://127.0.0.1:5000",
			SlotWidth:         slot.DefaultSlotWidth,
			TotalSlots:        slot.DefaultTotalSlots,
			AnchorDate:        "",
			DayStartHour:      slot.DefaultDayStartHour,
			PMStartHour:       slot.DefaultPMStartHour,
			FrozenColumnWidth: 16,
			GraceWindow:       Duration(2 * time.Second),
			SettleDelay:       Duration(10 * time.Millisecond),
			HoverDelay:        Duration(500 * time.Millisecond),
			ResizeRefresh:     Duration(50 * time.Millisecond),
			FocusRetryDelays:  []Duration{Duration(20 * time.Millisecond), Duration(50 * time.Millisecond)},
			DoubleClickWindow: Duration(400 * time.Millisecond),
			RequestTimeout:    Duration(10 * time.Second),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:5000",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "planboard.db"
	}
	return filepath.Join(home, ".local", "share", "planboard", "planboard.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "planboard", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Server.SeedPath = expandPath(cfg.Server.SeedPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PLANBOARD_SERVER_URL"); v != "" {
		cfg.Board.ServerURL = v
	}
	if v := os.Getenv("PLANBOARD_ANCHOR_DATE"); v != "" {
		cfg.Board.AnchorDate = v
	}
	if v := os.Getenv("PLANBOARD_SLOT_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PLANBOARD_SLOT_WIDTH: %w", err)
		}
		cfg.Board.SlotWidth = n
	}
	if v := os.Getenv("PLANBOARD_GRACE_WINDOW"); v != "" {
		if err := cfg.Board.GraceWindow.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("PLANBOARD_GRACE_WINDOW: %w", err)
		}
	}

	if v := os.Getenv("PLANBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PLANBOARD_SEED_PATH"); v != "" {
		cfg.Server.SeedPath = v
	}

	if v := os.Getenv("PLANBOARD_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("PLANBOARD_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	if v := os.Getenv("PLANBOARD_ODOO_URL"); v != "" {
		cfg.Odoo.URLTemplate = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	b := c.Board
	if b.ServerURL == "" {
		return errors.New("server_url must be set")
	}
	if b.SlotWidth < 1 {
		return fmt.Errorf("slot_width must be at least 1, got %d", b.SlotWidth)
	}
	if b.TotalSlots < 2 {
		return fmt.Errorf("total_slots must be at least 2, got %d", b.TotalSlots)
	}
	if b.AnchorDate != "" {
		if _, err := time.Parse(time.DateOnly, b.AnchorDate); err != nil {
			return fmt.Errorf("anchor_date must be YYYY-MM-DD, got %q", b.AnchorDate)
		}
	}
	if err := validateHour(b.DayStartHour, "day_start_hour"); err != nil {
		return err
	}
	if err := validateHour(b.PMStartHour, "pm_start_hour"); err != nil {
		return err
	}
	if b.DayStartHour >= b.PMStartHour {
		return errors.New("day_start_hour must be before pm_start_hour")
	}
	if b.FrozenColumnWidth < 0 {
		return errors.New("frozen_column_width must not be negative")
	}
	if b.GraceWindow <= 0 {
		return errors.New("grace_window must be positive")
	}
	if b.SettleDelay <= 0 {
		return errors.New("settle_delay must be positive")
	}
	for _, d := range b.FocusRetryDelays {
		if d <= 0 {
			return errors.New("focus_retry_delays must be positive")
		}
	}
	if b.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.Server.Addr == "" {
		return errors.New("addr must be set")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if t := c.Odoo.URLTemplate; t != "" && !strings.Contains(t, "{}") {
		return fmt.Errorf("url_template must contain a {} placeholder, got %q", t)
	}
	return nil
}

func validateHour(h int, field string) error {
	if h < 0 || h > 23 {
		return fmt.Errorf("%s must be between 0 and 23, got %d", field, h)
	}
	return nil
}

// Anchor returns the date of slot 0.
func (c *Config) Anchor() time.Time {
	if c.Board.AnchorDate != "" {
		if t, err := time.ParseInLocation(time.DateOnly, c.Board.AnchorDate, time.Local); err == nil {
			return t
		}
	}
	return time.Now()
}

// Geometry returns the slot geometry described by the board settings.
func (c *Config) Geometry() slot.Geometry {
	g := slot.New(c.Board.SlotWidth, c.Board.TotalSlots, c.Anchor())
	g.DayStartHour = c.Board.DayStartHour
	g.PMStartHour = c.Board.PMStartHour
	return g
}

// FocusRetries returns the focus retry delays as durations.
func (c *Config) FocusRetries() []time.Duration {
	out := make([]time.Duration, len(c.Board.FocusRetryDelays))
	for i, d := range c.Board.FocusRetryDelays {
		out[i] = d.D()
	}
	return out
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
