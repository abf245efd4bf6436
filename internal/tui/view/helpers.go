package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PadLinesWithBackground pads content to width/height with a background color.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	paddingStyle := lipgloss.NewStyle().Background(bg)
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := 0; i < height; i++ {
		line := lines[i]
		lineWidth := lipgloss.Width(line)
		if lineWidth >= width {
			continue
		}
		lines[i] = line + paddingStyle.Render(strings.Repeat(" ", width-lineWidth))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// PlaceAt draws a pre-rendered box over base with its top-left corner at
// (x, y), clipped to the width x height canvas.
func PlaceAt(base string, width, height int, box string, x, y int) string {
	if width <= 0 || height <= 0 || box == "" {
		return base
	}
	lines := strings.Split(strings.TrimRight(box, "\n"), "\n")
	return Splice(base, width, height, lines, x, y)
}

// Splice replaces the cells under box in base. Box lines are cut at the
// right edge of the canvas.
func Splice(base string, width, height int, box []string, left, top int) string {
	if left < 0 {
		left = 0
	}
	if top < 0 {
		top = 0
	}

	baseLines := NormalizeLines(base, width, height)
	out := make([]string, 0, height)
	for row := 0; row < height; row++ {
		if row < top || row >= top+len(box) || left >= width {
			out = append(out, baseLines[row])
			continue
		}

		line := box[row-top]
		boxW := lipgloss.Width(line)
		if left+boxW > width {
			line = ansi.Cut(line, 0, width-left)
			boxW = width - left
		}
		baseLine := baseLines[row]
		leftSlice := ansi.Cut(baseLine, 0, left)
		rightSlice := ansi.Cut(baseLine, left+boxW, width)
		out = append(out, leftSlice+line+rightSlice)
	}

	return strings.Join(out, "\n")
}

// NormalizeLines splits base into exactly height lines of exactly width cells.
func NormalizeLines(base string, width, height int) []string {
	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	for i, line := range lines {
		lineWidth := lipgloss.Width(line)
		if lineWidth > width {
			lines[i] = ansi.Cut(line, 0, width)
			continue
		}
		if lineWidth < width {
			lines[i] = line + strings.Repeat(" ", width-lineWidth)
		}
	}

	return lines
}

// Fit truncates or pads plain text to exactly width cells.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
