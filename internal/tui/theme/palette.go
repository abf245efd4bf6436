package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the concrete colors the board renders with.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Warning     lipgloss.Color
	Error       lipgloss.Color

	TaskBg     lipgloss.Color
	TaskBgAlt  lipgloss.Color
	AbsenceBg  lipgloss.Color
	VacationBg lipgloss.Color
	DropBg     lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnDrop    lipgloss.Color

	Modal ModalColors

	light  bool
	fg, bg string
}

// ModalColors are used by the confirmation dialog and the tooltip.
type ModalColors struct {
	Bg          lipgloss.Color
	Border      lipgloss.AdaptiveColor
	Text        lipgloss.AdaptiveColor
	Muted       lipgloss.AdaptiveColor
	Highlight   lipgloss.AdaptiveColor
	Panel       lipgloss.AdaptiveColor
	ReverseText lipgloss.AdaptiveColor
	Backdrop    lipgloss.Color
}

// Shading of block backgrounds relative to their source color.
const (
	lightThreshold = 0.55

	darkBlockScale = 0.50
	darkBlockFloor = 40.0 / 255
	darkMuteScale  = 0.30
	darkMuteFloor  = 30.0 / 255

	lightBlockBlend = 0.75
	lightMuteBlend  = 0.88

	altShadeDark  = 0.30
	altShadeLight = 0.10
)

// NewPalette derives a Palette from t. A nil theme uses DefaultName.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	light := relativeLuminance(t.Bg) > lightThreshold
	task := blockBg(coalesce(t.Task, t.Accent), t.Bg, light)
	modalBg := coalesce(t.BaseBg, t.BgHighlight, t.Bg)
	modalText := coalesce(t.TextPrimary, t.Fg)
	panel := coalesce(t.BgSelection, t.BgHighlight, t.Bg)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Warning:     lipgloss.Color(t.Warning),
		Error:       lipgloss.Color(t.Error),

		TaskBg:     lipgloss.Color(task),
		TaskBgAlt:  lipgloss.Color(alternateShade(task, light)),
		AbsenceBg:  lipgloss.Color(mutedBg(coalesce(t.Absence, t.FgMuted), t.Bg, light)),
		VacationBg: lipgloss.Color(mutedBg(coalesce(t.Vacation, t.FgMuted), t.Bg, light)),
		DropBg:     lipgloss.Color(t.Drop),

		TextOnAccent:  lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),
		TextOnDrop:    lipgloss.Color(chooseTextColor(t.Drop, t.Bg, t.Fg)),

		Modal: ModalColors{
			Bg:          lipgloss.Color(modalBg),
			Border:      same(coalesce(t.ModalBorder, t.Accent)),
			Text:        same(modalText),
			Muted:       same(coalesce(t.TextMuted, t.FgMuted)),
			Highlight:   same(coalesce(t.Highlight, t.BgSelection, t.Accent)),
			Panel:       same(panel),
			ReverseText: lipgloss.AdaptiveColor{Dark: modalBg, Light: modalText},
			Backdrop:    lipgloss.Color(panel),
		},

		light: light,
		fg:    t.Fg,
		bg:    t.Bg,
	}
}

// JobBg returns the block background for a job color. Colors that do not
// parse as hex fall back to TaskBg.
func (p *Palette) JobBg(hex string) lipgloss.Color {
	if _, err := colorful.Hex(hex); err != nil {
		return p.TaskBg
	}
	return lipgloss.Color(blockBg(hex, p.bg, p.light))
}

// JobBgAlt is the alternate shade of JobBg, used when two blocks of the same
// job touch.
func (p *Palette) JobBgAlt(hex string) lipgloss.Color {
	if _, err := colorful.Hex(hex); err != nil {
		return p.TaskBgAlt
	}
	return lipgloss.Color(alternateShade(blockBg(hex, p.bg, p.light), p.light))
}

// TextOn picks the theme foreground that reads best on bg.
func (p *Palette) TextOn(bg lipgloss.Color) lipgloss.Color {
	return lipgloss.Color(chooseTextColor(string(bg), p.bg, p.fg))
}

func blockBg(src, bg string, light bool) string {
	if light {
		return blend(src, bg, lightBlockBlend)
	}
	return darkenColor(src)
}

func mutedBg(src, bg string, light bool) string {
	if light {
		return blend(src, bg, lightMuteBlend)
	}
	return muteColor(src)
}

func darkenColor(hex string) string {
	return scale(hex, darkBlockScale, darkBlockFloor)
}

func muteColor(hex string) string {
	return scale(hex, darkMuteScale, darkMuteFloor)
}

func alternateShade(hex string, light bool) string {
	if light {
		return blend(hex, "#000000", altShadeLight)
	}
	return blend(hex, "#ffffff", altShadeDark)
}

// scale multiplies each channel by factor, keeping it above floor.
func scale(hex string, factor, floor float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return colorful.Color{
		R: max(c.R*factor, floor),
		G: max(c.G*factor, floor),
		B: max(c.B*factor, floor),
	}.Clamped().Hex()
}

// blend moves a towards b by ratio, in sRGB.
func blend(a, b string, ratio float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendRgb(cb, min(max(ratio, 0), 1)).Clamped().Hex()
}

func same(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: hex, Light: hex}
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

// contrastRatio is the WCAG contrast ratio between two colors.
func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance is 0 for colors that do not parse.
func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
