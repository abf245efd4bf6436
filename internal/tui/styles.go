package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/planboard/internal/task"
	"github.com/javiermolinar/planboard/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Header bands
	HeaderStyle       lipgloss.Style
	HeaderWeekStyle   lipgloss.Style
	HeaderPeriodStyle lipgloss.Style

	// Frozen operator column
	OperatorStyle       lipgloss.Style
	OperatorActiveStyle lipgloss.Style

	// Slot backgrounds
	EmptyCellStyle    lipgloss.Style
	AbsenceCellStyle  lipgloss.Style
	VacationCellStyle lipgloss.Style
	DropCellStyle     lipgloss.Style

	// Task blocks; the job color is applied by Task
	TaskSelectedStyle lipgloss.Style
	TaskDraggingStyle lipgloss.Style
	TaskResizingStyle lipgloss.Style

	// Horizontal scrollbar
	ScrollTrackStyle lipgloss.Style
	ScrollThumbStyle lipgloss.Style

	// Footer
	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	HelpStyle        lipgloss.Style

	// Tooltip
	TooltipStyle      lipgloss.Style
	TooltipTitleStyle lipgloss.Style

	// Modal
	ModalStyle      lipgloss.Style
	ModalBgColor    lipgloss.Color
	ModalTitleStyle lipgloss.Style
	ModalBodyStyle  lipgloss.Style
	ModalHintStyle  lipgloss.Style

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	s.HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.Bg)

	s.HeaderWeekStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.Bg)

	s.HeaderPeriodStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg)

	s.OperatorStyle = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.BgHighlight)

	s.OperatorActiveStyle = s.OperatorStyle.
		Foreground(p.Accent).
		Bold(true)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg)

	s.AbsenceCellStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.AbsenceBg)

	s.VacationCellStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.VacationBg)

	s.DropCellStyle = lipgloss.NewStyle().
		Foreground(p.TextOnDrop).
		Background(p.DropBg)

	s.TaskSelectedStyle = lipgloss.NewStyle().
		Background(p.Warning).
		Foreground(p.TextOnWarning).
		Bold(true)

	s.TaskDraggingStyle = lipgloss.NewStyle().
		Faint(true)

	s.TaskResizingStyle = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextOnAccent).
		Bold(true)

	s.ScrollTrackStyle = lipgloss.NewStyle().
		Foreground(p.BgSelection).
		Background(p.Bg)

	s.ScrollThumbStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Background(p.Bg)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Background(p.Bg).
		Bold(true)

	s.StatusErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Background(p.Bg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg)

	// Sized to match the board's tooltip measurement: one cell of border and
	// padding on each side, a title line above the details.
	s.TooltipStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Modal.Border).
		Background(p.Modal.Bg).
		Foreground(p.Modal.Text).
		Padding(0, 1)

	s.TooltipTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.Modal.Bg)

	modal := p.Modal
	s.ModalBgColor = modal.Bg

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 2)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.AppStyle = lipgloss.NewStyle().
		Background(p.Bg)

	return s
}

// Task returns the block style for a task of job. Adjacent blocks of the
// same job alternate shades so their boundary stays visible.
func (s *Styles) Task(job task.Job, alt bool) lipgloss.Style {
	bg := s.palette.JobBg(job.Color)
	if alt {
		bg = s.palette.JobBgAlt(job.Color)
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(s.palette.TextOn(bg))
}
