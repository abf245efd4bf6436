// Package theme provides the board color themes.
//
// Built-in themes are embedded TOML files. A file named <name>.toml in the
// user theme directory takes precedence; it may set `extends` to a built-in
// theme and override only some colors.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is the theme used when none is configured or found.
const DefaultName = "mocha"

var builtin = []string{"mocha", "macchiato", "frappe", "latte", "light"}

// Theme holds the colors of the board.
type Theme struct {
	Name    string `toml:"name"`
	Extends string `toml:"extends"` // Built-in theme a user theme starts from

	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // Operator column, footer
	BgSelection string `toml:"bg_selection"` // Selected task
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"`
	Accent      string `toml:"accent"` // Headers, borders
	Task        string `toml:"task"`   // Task blocks whose job has no color
	Absence     string `toml:"absence"`
	Vacation    string `toml:"vacation"`
	Drop        string `toml:"drop"`    // Drop target under a dragged task
	Warning     string `toml:"warning"` // Resize handles
	Error       string `toml:"error"`

	// Dialogs and tooltips. Empty values derive from the colors above.
	BaseBg      string `toml:"base_bg"`
	ModalBorder string `toml:"modal_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

// UserDir returns the directory searched for user themes.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "planboard", "themes")
}

// Load returns a built-in theme. Unknown names fall back to DefaultName.
func Load(name string) (*Theme, error) {
	return LoadWithDir("", name)
}

// LoadWithDir looks for name in dir first, then among the built-in themes.
func LoadWithDir(dir, name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}

	if dir != "" {
		t, err := loadUser(os.DirFS(dir), name)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	t, err := loadBuiltin(name)
	if errors.Is(err, fs.ErrNotExist) && name != DefaultName {
		return loadBuiltin(DefaultName)
	}
	return t, err
}

func loadBuiltin(name string) (*Theme, error) {
	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()
	return &t, nil
}

func loadUser(fsys fs.FS, name string) (*Theme, error) {
	data, err := fs.ReadFile(fsys, name+".toml")
	if err != nil {
		return nil, err
	}

	var probe struct {
		Extends string `toml:"extends"`
	}
	if err := toml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}

	var t Theme
	if probe.Extends != "" {
		base, err := loadBuiltin(strings.ToLower(probe.Extends))
		if err != nil {
			return nil, fmt.Errorf("theme %q extends unknown theme %q", name, probe.Extends)
		}
		t = *base
	}
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if t.Name == "" || strings.EqualFold(t.Name, probe.Extends) {
		t.Name = name
	}
	if t.Bg == "" || t.Fg == "" || t.Accent == "" {
		return nil, fmt.Errorf("theme %q: bg, fg and accent are required", name)
	}
	t.applyDefaults()
	return &t, nil
}

// applyDefaults derives unset colors from the base ones.
func (t *Theme) applyDefaults() {
	t.Task = coalesce(t.Task, t.Accent)
	t.Drop = coalesce(t.Drop, t.Accent)
	t.Warning = coalesce(t.Warning, t.Accent)
	t.Error = coalesce(t.Error, t.Warning)
	t.FgMuted = coalesce(t.FgMuted, t.Fg)
	t.BgHighlight = coalesce(t.BgHighlight, t.Bg)
	t.BgSelection = coalesce(t.BgSelection, t.BgHighlight)
	t.Absence = coalesce(t.Absence, t.FgMuted)
	t.Vacation = coalesce(t.Vacation, t.FgMuted)

	t.BaseBg = coalesce(t.BaseBg, t.BgHighlight)
	t.ModalBorder = coalesce(t.ModalBorder, t.Accent)
	t.TextPrimary = coalesce(t.TextPrimary, t.Fg)
	t.TextMuted = coalesce(t.TextMuted, t.FgMuted)
	t.Highlight = coalesce(t.Highlight, t.BgSelection)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns the built-in theme names.
func Available() []string {
	return slices.Clone(builtin)
}

// IsAvailable reports whether name is a built-in theme or a theme file in dir.
func IsAvailable(name string, dirs ...string) bool {
	name = strings.ToLower(name)
	if slices.Contains(builtin, name) {
		return true
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, name+".toml")); err == nil {
			return true
		}
	}
	return false
}
