package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func darkTheme() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Task:        "#112233",
		Absence:     "#445566",
		Vacation:    "#667788",
		Drop:        "#00ff00",
		Warning:     "#888888",
		Error:       "#ff00ff",
	}
}

func TestNewPalette_TaskShades(t *testing.T) {
	base := darkTheme()
	palette := NewPalette(base)

	if palette.TaskBg != lipgloss.Color(darkenColor(base.Task)) {
		t.Fatalf("TaskBg = %q, want %q", palette.TaskBg, darkenColor(base.Task))
	}
	if palette.TaskBgAlt != lipgloss.Color(alternateShade(darkenColor(base.Task), false)) {
		t.Fatalf("TaskBgAlt = %q", palette.TaskBgAlt)
	}
	if palette.AbsenceBg != lipgloss.Color(muteColor(base.Absence)) {
		t.Fatalf("AbsenceBg = %q, want %q", palette.AbsenceBg, muteColor(base.Absence))
	}
	if palette.VacationBg != lipgloss.Color(muteColor(base.Vacation)) {
		t.Fatalf("VacationBg = %q, want %q", palette.VacationBg, muteColor(base.Vacation))
	}
	if palette.DropBg != lipgloss.Color(base.Drop) {
		t.Fatalf("DropBg = %q, want %q", palette.DropBg, base.Drop)
	}
}

func TestPalette_JobBg(t *testing.T) {
	palette := NewPalette(darkTheme())

	tests := []struct {
		name string
		hex  string
		want lipgloss.Color
	}{
		{"job color", "#4080c0", lipgloss.Color(darkenColor("#4080c0"))},
		{"empty falls back", "", palette.TaskBg},
		{"named color falls back", "red", palette.TaskBg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := palette.JobBg(tt.hex); got != tt.want {
				t.Errorf("JobBg(%q) = %q, want %q", tt.hex, got, tt.want)
			}
		})
	}
}

func TestNewPalette_ModalFallbacks(t *testing.T) {
	base := darkTheme()

	palette := NewPalette(base)
	if palette.Modal.Bg != lipgloss.Color(base.BgHighlight) {
		t.Fatalf("Modal.Bg = %q, want %q", palette.Modal.Bg, base.BgHighlight)
	}
	if palette.Modal.Border.Dark != base.Accent {
		t.Fatalf("Modal.Border.Dark = %q, want %q", palette.Modal.Border.Dark, base.Accent)
	}
	if palette.Modal.Backdrop != lipgloss.Color(base.BgSelection) {
		t.Fatalf("Modal.Backdrop = %q, want %q", palette.Modal.Backdrop, base.BgSelection)
	}
}

func TestNewPalette_LightThemeLightensBlocks(t *testing.T) {
	base := &Theme{
		Bg:          "#f5f5f5",
		BgHighlight: "#eeeeee",
		BgSelection: "#e0e0e0",
		Fg:          "#222222",
		FgMuted:     "#555555",
		Accent:      "#2f6feb",
		Task:        "#1d8a8a",
		Drop:        "#2f8f2f",
		Warning:     "#c97b00",
	}

	palette := NewPalette(base)
	if relativeLuminance(string(palette.TaskBg)) <= relativeLuminance(base.Task) {
		t.Fatalf("TaskBg luminance = %f, want greater than Task", relativeLuminance(string(palette.TaskBg)))
	}
	if got := palette.JobBg("#2f6feb"); relativeLuminance(string(got)) <= relativeLuminance("#2f6feb") {
		t.Fatalf("JobBg on a light theme should lighten, got %q", got)
	}
}

func TestPalette_TextOn(t *testing.T) {
	palette := NewPalette(darkTheme())
	if got := palette.TextOn(lipgloss.Color("#f0f0f0")); got != lipgloss.Color("#101010") {
		t.Errorf("TextOn(light bg) = %q, want the dark text", got)
	}
}

func TestChooseTextColorPrefersContrast(t *testing.T) {
	bg := "#f0f0f0"
	lightText := "#ffffff"
	darkText := "#111111"

	if got := chooseTextColor(bg, lightText, darkText); got != darkText {
		t.Fatalf("chooseTextColor(%q, %q, %q) = %q, want %q", bg, lightText, darkText, got, darkText)
	}
}

func TestPalette_JobBgAlt(t *testing.T) {
	palette := NewPalette(darkTheme())
	if got := palette.JobBgAlt(""); got != palette.TaskBgAlt {
		t.Errorf("JobBgAlt(\"\") = %q, want %q", got, palette.TaskBgAlt)
	}
	if got, base := palette.JobBgAlt("#4080c0"), palette.JobBg("#4080c0"); got == base {
		t.Errorf("alternate shade should differ from %q", base)
	}
}

func TestDarkenColor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#ff8040", "#804028"},
		{"#000000", "#282828"},
		{"#FFFFFF", "#808080"},
		{"nope", "nope"},
	}
	for _, tt := range tests {
		if got := darkenColor(tt.in); got != tt.want {
			t.Errorf("darkenColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBlendBounds(t *testing.T) {
	if got := blend("#000000", "#ffffff", 2); got != "#ffffff" {
		t.Errorf("blend ratio above 1 = %q, want #ffffff", got)
	}
	if got := blend("#000000", "#ffffff", -1); got != "#000000" {
		t.Errorf("blend ratio below 0 = %q, want #000000", got)
	}
	if got := blend("#123456", "bad", 0.5); got != "#123456" {
		t.Errorf("blend with an invalid target = %q, want the source", got)
	}
}
