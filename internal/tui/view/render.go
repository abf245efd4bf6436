// Package view holds the string-level rendering helpers of the board TUI.
package view

import "github.com/charmbracelet/lipgloss"

// Dialog draws modal content over the rest of the screen.
type Dialog interface {
	Open() bool
	Render(base string, width, height int, content string) string
}

// Popup is content anchored at a screen cell.
type Popup struct {
	Content string
	X, Y    int
}

// Screen is everything visible in one frame, bottom layer first.
type Screen struct {
	Width, Height int
	Board         string
	Placeholder   string
	Tooltip       *Popup
	Dialog        Dialog
	DialogContent string
}

// Render stacks the tooltip and the open dialog over the board.
func Render(s Screen) string {
	if s.Width == 0 || s.Height == 0 {
		if s.Placeholder != "" {
			return s.Placeholder
		}
		return "Loading..."
	}

	out := s.Board
	if s.Tooltip != nil && s.Tooltip.Content != "" {
		out = PlaceAt(out, s.Width, s.Height, s.Tooltip.Content, s.Tooltip.X, s.Tooltip.Y)
	}
	if s.Dialog != nil && s.Dialog.Open() {
		out = s.Dialog.Render(out, s.Width, s.Height, s.DialogContent)
	}
	return out
}

// RenderFooter renders the status line above the key help, padded to width
// on bg. It returns the footer and its height.
func RenderFooter(status, help string, width int, bg lipgloss.Color) (string, int) {
	height := 1 + lipgloss.Height(help)
	return PadLinesWithBackground(status+"\n"+help, width, height, bg), height
}
