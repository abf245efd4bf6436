package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/planboard/internal/tui/view"
)

// dialogMargin is the backdrop band drawn around a dialog, in cells.
const dialogMargin = 1

// confirmDialog is the delete confirmation. It is open while it holds a task id.
type confirmDialog struct {
	taskID   string
	backdrop lipgloss.Color
}

func newConfirmDialog(backdrop lipgloss.Color) confirmDialog {
	return confirmDialog{backdrop: backdrop}
}

// Open reports whether the dialog is showing.
func (d confirmDialog) Open() bool { return d.taskID != "" }

// TaskID returns the task awaiting confirmation.
func (d confirmDialog) TaskID() string { return d.taskID }

// Show opens the dialog for a task.
func (d *confirmDialog) Show(id string) { d.taskID = id }

// Dismiss closes the dialog.
func (d *confirmDialog) Dismiss() { d.taskID = "" }

// Render centres content over base inside a band of backdrop colour, so the
// task blocks underneath do not touch the dialog frame. The board stays
// visible left and right of the band. Content larger than the screen is cut.
func (d confirmDialog) Render(base string, width, height int, content string) string {
	if !d.Open() || width <= 0 || height <= 0 {
		return base
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return base
	}

	inner := 0
	for _, l := range lines {
		inner = max(inner, lipgloss.Width(l))
	}
	boxW := min(inner+2*dialogMargin, width)
	boxH := min(len(lines)+2*dialogMargin, height)

	bg := ansi.Style{}.BackgroundColor(ansi.HexColor(string(d.backdrop))).String()
	blank := bg + strings.Repeat(" ", boxW) + ansi.ResetStyle

	box := make([]string, boxH)
	for i := range box {
		row := i - dialogMargin
		if row < 0 || row >= len(lines) {
			box[i] = blank
			continue
		}
		box[i] = d.band(lines[row], boxW, bg)
	}

	return view.Splice(base, width, height, box, (width-boxW)/2, (height-boxH)/2)
}

// band pads one content line to w cells between backdrop margins. Resets
// inside the line re-apply the backdrop so trailing cells keep its colour.
func (d confirmDialog) band(line string, w int, bg string) string {
	inner := max(w-2*dialogMargin, 0)
	if lipgloss.Width(line) > inner {
		line = ansi.Cut(line, 0, inner)
	}
	line += strings.Repeat(" ", inner-lipgloss.Width(line))
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bg)

	pad := strings.Repeat(" ", min(dialogMargin, w))
	right := strings.Repeat(" ", max(w-dialogMargin-inner, 0))
	return bg + pad + line + bg + right + ansi.ResetStyle
}
