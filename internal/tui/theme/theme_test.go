package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		themeName string
		wantName  string
	}{
		{"mocha", "mocha"},
		{"macchiato", "macchiato"},
		{"frappe", "frappe"},
		{"latte", "latte"},
		{"light", "light"},
		{" Latte ", "latte"},
		{"", "mocha"},
		{"nonexistent", "mocha"},
	}

	for _, tt := range tests {
		t.Run(tt.themeName, func(t *testing.T) {
			theme, err := Load(tt.themeName)
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", tt.themeName, err)
			}
			if theme.Name != tt.wantName {
				t.Errorf("Load(%q).Name = %q, want %q", tt.themeName, theme.Name, tt.wantName)
			}
		})
	}
}

func TestLoad_EveryThemeHasHexColors(t *testing.T) {
	for _, name := range Available() {
		theme, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		for field, hex := range map[string]string{
			"Bg": theme.Bg, "BgHighlight": theme.BgHighlight, "BgSelection": theme.BgSelection,
			"Fg": theme.Fg, "FgMuted": theme.FgMuted, "Accent": theme.Accent,
			"Task": theme.Task, "Absence": theme.Absence, "Vacation": theme.Vacation,
			"Drop": theme.Drop, "Warning": theme.Warning, "Error": theme.Error,
			"BaseBg": theme.BaseBg, "ModalBorder": theme.ModalBorder, "Highlight": theme.Highlight,
		} {
			if len(hex) != 7 || hex[0] != '#' {
				t.Errorf("%s.%s = %q, want #rrggbb", name, field, hex)
			}
		}
	}
}

func writeTheme(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("writing theme: %v", err)
	}
}

func TestLoadWithDir_Extends(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "workshop", `
extends = "latte"
task = "#ff6b6b"
drop = "#00aa00"
`)

	base, err := Load("latte")
	if err != nil {
		t.Fatalf("Load(latte): %v", err)
	}
	got, err := LoadWithDir(dir, "Workshop")
	if err != nil {
		t.Fatalf("LoadWithDir: %v", err)
	}

	if got.Name != "workshop" {
		t.Errorf("Name = %q, want workshop", got.Name)
	}
	if got.Task != "#ff6b6b" || got.Drop != "#00aa00" {
		t.Errorf("overrides lost: task %q, drop %q", got.Task, got.Drop)
	}
	if got.Bg != base.Bg || got.Accent != base.Accent {
		t.Errorf("base colors not inherited: bg %q accent %q", got.Bg, got.Accent)
	}
}

func TestLoadWithDir_OverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "mocha", `
name = "my mocha"
bg = "#000000"
fg = "#ffffff"
accent = "#ff0000"
`)

	got, err := LoadWithDir(dir, "mocha")
	if err != nil {
		t.Fatalf("LoadWithDir: %v", err)
	}
	if got.Name != "my mocha" || got.Bg != "#000000" {
		t.Errorf("got %+v, want the user file", got)
	}
	if got.Task != "#ff0000" {
		t.Errorf("Task = %q, want the accent as default", got.Task)
	}
}

func TestLoadWithDir_Errors(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "broken", `bg = [`)
	writeTheme(t, dir, "partial", `bg = "#000000"`)
	writeTheme(t, dir, "orphan", `extends = "solarized"`)

	tests := []struct {
		name string
		want string
	}{
		{"broken", "parsing theme"},
		{"partial", "required"},
		{"orphan", "extends"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithDir(dir, tt.name)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadWithDir(%q) error = %v, want %q", tt.name, err, tt.want)
			}
		})
	}

	if got, err := LoadWithDir(dir, "frappe"); err != nil || got.Name != "frappe" {
		t.Errorf("built-in lookup through a user dir = %v, %v", got, err)
	}
}

func TestApplyDefaults(t *testing.T) {
	theme := &Theme{Bg: "#101010", Fg: "#eeeeee", Accent: "#112233", Warning: "#445566"}
	theme.applyDefaults()

	if theme.Task != "#112233" || theme.Drop != "#112233" {
		t.Errorf("task/drop = %q/%q, want the accent", theme.Task, theme.Drop)
	}
	if theme.Error != "#445566" {
		t.Errorf("error = %q, want the warning color", theme.Error)
	}
	if theme.Absence != "#eeeeee" || theme.BaseBg != "#101010" {
		t.Errorf("absence %q, base bg %q", theme.Absence, theme.BaseBg)
	}
}

func TestAvailable(t *testing.T) {
	got := Available()
	want := []string{"mocha", "macchiato", "frappe", "latte", "light"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Available() = %v, want %v", got, want)
	}

	got[0] = "changed"
	if Available()[0] != "mocha" {
		t.Error("Available() exposes its backing slice")
	}
}

func TestIsAvailable(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "workshop", `extends = "mocha"`)

	tests := []struct {
		theme string
		dirs  []string
		want  bool
	}{
		{"mocha", nil, true},
		{"Mocha", nil, true},
		{"unknown", nil, false},
		{"workshop", nil, false},
		{"workshop", []string{"", dir}, true},
	}
	for _, tt := range tests {
		if got := IsAvailable(tt.theme, tt.dirs...); got != tt.want {
			t.Errorf("IsAvailable(%q, %v) = %t, want %t", tt.theme, tt.dirs, got, tt.want)
		}
	}
}
