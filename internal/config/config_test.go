package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Board.ServerURL != "http://127.0.0.1:5000" {
		t.Errorf("expected server_url http://127.0.0.1:5000, got %s", cfg.Board.ServerURL)
	}
	if cfg.Board.TotalSlots != 60 {
		t.Errorf("expected total_slots 60, got %d", cfg.Board.TotalSlots)
	}
	if cfg.Board.GraceWindow.D() != 2*time.Second {
		t.Errorf("expected grace_window 2s, got %s", cfg.Board.GraceWindow.D())
	}
	if cfg.Board.SettleDelay.D() != 10*time.Millisecond {
		t.Errorf("expected settle_delay 10ms, got %s", cfg.Board.SettleDelay.D())
	}
	if cfg.Board.HoverDelay.D() != 500*time.Millisecond {
		t.Errorf("expected hover_delay 500ms, got %s", cfg.Board.HoverDelay.D())
	}
	if got := cfg.FocusRetries(); len(got) != 2 || got[0] != 20*time.Millisecond || got[1] != 50*time.Millisecond {
		t.Errorf("expected focus retries [20ms 50ms], got %v", got)
	}
	if cfg.Odoo.URLTemplate != "" {
		t.Errorf("expected empty url_template, got %s", cfg.Odoo.URLTemplate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Board.SlotWidth != 4 {
		t.Errorf("expected default slot_width, got %d", cfg.Board.SlotWidth)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[board]
server_url = "http://planning.local:8080"
slot_width = 6
anchor_date = "2025-08-11"
grace_window = "3s"
focus_retry_delays = ["10ms", "30ms", "90ms"]

[server]
addr = ":9000"

[storage]
db_path = "/tmp/test.db"

[odoo]
url_template = "https://erp.example.com/web#id={}&amp;model=mrp.workorder"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Board.ServerURL != "http://planning.local:8080" {
		t.Errorf("expected server_url from file, got %s", cfg.Board.ServerURL)
	}
	if cfg.Board.SlotWidth != 6 {
		t.Errorf("expected slot_width 6, got %d", cfg.Board.SlotWidth)
	}
	if cfg.Board.GraceWindow.D() != 3*time.Second {
		t.Errorf("expected grace_window 3s, got %s", cfg.Board.GraceWindow.D())
	}
	if len(cfg.Board.FocusRetryDelays) != 3 {
		t.Errorf("expected 3 focus retry delays, got %d", len(cfg.Board.FocusRetryDelays))
	}
	// Fields absent from the file keep their defaults.
	if cfg.Board.HoverDelay.D() != 500*time.Millisecond {
		t.Errorf("expected default hover_delay, got %s", cfg.Board.HoverDelay.D())
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %s", cfg.Server.Addr)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}

	g := cfg.Geometry()
	if g.SlotWidth != 6 {
		t.Errorf("expected geometry slot width 6, got %d", g.SlotWidth)
	}
	if y, m, d := g.Anchor.Date(); y != 2025 || m != time.August || d != 11 {
		t.Errorf("expected anchor 2025-08-11, got %v", g.Anchor)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[board]
server_url = "http://from-file:5000"
slot_width = 6

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("PLANBOARD_SERVER_URL", "http://from-env:5000")
	t.Setenv("PLANBOARD_GRACE_WINDOW", "1500ms")
	t.Setenv("PLANBOARD_UI_THEME", "latte")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Board.ServerURL != "http://from-env:5000" {
		t.Errorf("expected server_url from env, got %s", cfg.Board.ServerURL)
	}
	if cfg.Board.SlotWidth != 6 {
		t.Errorf("expected slot_width 6 from file, got %d", cfg.Board.SlotWidth)
	}
	if cfg.Board.GraceWindow.D() != 1500*time.Millisecond {
		t.Errorf("expected grace_window 1.5s from env, got %s", cfg.Board.GraceWindow.D())
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte from env, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_BadEnvDuration(t *testing.T) {
	t.Setenv("PLANBOARD_GRACE_WINDOW", "soon")

	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for unparsable grace window")
	}
}

func TestLoadFrom_BadFileDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[board]
hover_delay = "half a second"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error for unparsable hover_delay")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty server url", func(c *Config) { c.Board.ServerURL = "" }},
		{"zero slot width", func(c *Config) { c.Board.SlotWidth = 0 }},
		{"one slot", func(c *Config) { c.Board.TotalSlots = 1 }},
		{"bad anchor", func(c *Config) { c.Board.AnchorDate = "11/08/2025" }},
		{"hour out of range", func(c *Config) { c.Board.PMStartHour = 24 }},
		{"am after pm", func(c *Config) { c.Board.DayStartHour = 16 }},
		{"zero grace", func(c *Config) { c.Board.GraceWindow = 0 }},
		{"zero settle", func(c *Config) { c.Board.SettleDelay = 0 }},
		{"negative retry", func(c *Config) { c.Board.FocusRetryDelays = []Duration{Duration(-time.Millisecond)} }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"template without placeholder", func(c *Config) { c.Odoo.URLTemplate = "https://erp.example.com/web" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAnchor_DefaultsToToday(t *testing.T) {
	cfg := Default()
	got := cfg.Anchor()
	now := time.Now()
	if got.YearDay() != now.YearDay() || got.Year() != now.Year() {
		t.Errorf("expected today, got %v", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Board.SlotWidth = 8
	cfg.Board.HoverDelay = Duration(750 * time.Millisecond)
	cfg.Odoo.URLTemplate = "https://erp.example.com/task/{}"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Board.SlotWidth != 8 {
		t.Errorf("expected slot_width 8, got %d", loaded.Board.SlotWidth)
	}
	if loaded.Board.HoverDelay.D() != 750*time.Millisecond {
		t.Errorf("expected hover_delay 750ms, got %s", loaded.Board.HoverDelay.D())
	}
	if loaded.Odoo.URLTemplate != "https://erp.example.com/task/{}" {
		t.Errorf("expected url_template round trip, got %s", loaded.Odoo.URLTemplate)
	}
}

func TestLoadFrom_MidnightDayStart(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[board]
anchor_date = "2025-08-11"
day_start_hour = 0
pm_start_hour = 12
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	g := cfg.Geometry()
	if h := g.Calendar(0).Date.Hour(); h != 0 {
		t.Errorf("AM slot hour = %d, want 0", h)
	}
	if h := g.Calendar(1).Date.Hour(); h != 12 {
		t.Errorf("PM slot hour = %d, want 12", h)
	}
}
