package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/planboard/internal/board"
	"github.com/javiermolinar/planboard/internal/tui/view"
)

// View renders the board, the footer and any overlays.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.Screen {
	screen := view.Screen{
		Width:       m.width,
		Height:      m.height,
		Board:       m.renderAppContent(),
		Placeholder: "Loading...",
		Dialog:      m.confirm,
	}
	if m.board == nil {
		return screen
	}
	if m.confirm.Open() {
		screen.DialogContent = m.renderConfirmDelete()
	} else if tip := m.board.Tooltip.Current(); tip != nil {
		screen.Tooltip = &view.Popup{
			Content: view.RenderTooltip(tip.Title, tip.Lines, view.TooltipStyles{
				Box:   m.styles.TooltipStyle,
				Title: m.styles.TooltipTitleStyle,
				Body:  m.styles.ModalBodyStyle,
			}),
			X: tip.X,
			Y: tip.Y,
		}
	}
	return screen
}

func (m Model) renderAppContent() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	bg := m.styles.palette.Bg
	if m.board == nil {
		msg := "Loading board..."
		if m.err != nil {
			msg = fmt.Sprintf("Could not load the board: %v\nPress R to reload or q to quit.", m.err)
		}
		return view.PadLinesWithBackground(m.styles.HeaderStyle.Render(msg), m.width, m.height, bg)
	}

	lines := m.renderHeader()
	lines = append(lines, m.renderRows()...)
	lines = append(lines, m.renderScrollbar())

	footer := m.renderFooter()
	footerH := lipgloss.Height(footer)
	bodyH := max(m.height-footerH, 0)
	if len(lines) > bodyH {
		lines = lines[:bodyH]
	}

	body := view.PadLinesWithBackground(strings.Join(lines, "\n"), m.width, bodyH, bg)
	if bodyH == 0 {
		return footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

// window returns the part of the time axis the rows show.
func (m Model) window() view.Window {
	v := m.board.View()
	return view.Window{
		Geometry: m.board.Geometry(),
		Offset:   v.Scrollbar().ScrollLeft(),
		Width:    v.VisibleWidth(),
	}
}

func (m Model) frozenWidth() int {
	return m.board.View().FrozenWidth()
}

func (m Model) renderHeader() []string {
	w := m.window()
	w.Offset = m.board.View().HeaderOffset()
	weeks, days, periods := view.HeaderBands(w)

	frozen := m.frozenWidth()
	corner := m.styles.OperatorStyle.Bold(true)
	return []string{
		corner.Render(view.Fit(" Operators", frozen)) + m.styles.HeaderWeekStyle.Render(weeks),
		corner.Render(view.Fit("", frozen)) + m.styles.HeaderStyle.Render(days),
		corner.Render(view.Fit("", frozen)) + m.styles.HeaderPeriodStyle.Render(periods),
	}
}

func (m Model) renderRows() []string {
	v := m.board.View()
	rows := v.Rows()
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.renderRow(r))
	}
	return out
}

func (m Model) renderRow(r *board.Row) string {
	v := m.board.View()
	w := m.window()
	w.Offset = r.ScrollLeft()

	children := r.Children()
	blocks := make([]view.Block, len(children))
	active := false
	for i, n := range children {
		label := n.Task.Name
		if label == "" {
			label = n.ID
		}
		blocks[i] = view.Block{
			Left:  n.Left(),
			Width: n.Width(),
			Label: label,
			Grip:  n.IsSelected() || n.IsResizing(),
		}
		active = active || n.IsSelected()
	}

	shade := func(s int) view.Shade {
		switch {
		case v.IsDropTarget(board.Cell{OperatorID: r.OperatorID, Slot: s}):
			return view.ShadeDrop
		case v.IsVacation(s):
			return view.ShadeVacation
		case r.IsAbsent(s):
			return view.ShadeAbsence
		}
		return view.ShadeOpen
	}

	var sb strings.Builder
	nameStyle := m.styles.OperatorStyle
	if active {
		nameStyle = m.styles.OperatorActiveStyle
	}
	sb.WriteString(nameStyle.Render(view.Fit(" "+r.Name, m.frozenWidth())))

	for _, seg := range view.RowSegments(w, shade, blocks) {
		if seg.Block >= 0 {
			sb.WriteString(m.taskStyle(children, seg.Block).Render(seg.Text))
			continue
		}
		sb.WriteString(m.shadeStyle(seg.Shade).Render(seg.Text))
	}
	return sb.String()
}

// taskStyle picks the look of children[i]. Neighbours of the same job that
// touch get alternating shades.
func (m Model) taskStyle(children []*board.TaskNode, i int) lipgloss.Style {
	n := children[i]
	switch {
	case n.IsResizing():
		return m.styles.TaskResizingStyle
	case n.IsSelected():
		return m.styles.TaskSelectedStyle
	}

	job, _ := m.board.View().Job(n.JobID)
	style := m.styles.Task(job, isAltShade(children, i, 0))
	if n.IsDragging() {
		style = m.styles.TaskDraggingStyle.Inherit(style)
	}
	return style
}

// isAltShade walks left along touching blocks of the same job; shades
// alternate from the leftmost one.
func isAltShade(children []*board.TaskNode, i, depth int) bool {
	if depth > len(children) {
		return false
	}
	n := children[i]
	for j, o := range children {
		if j != i && o.JobID == n.JobID && o.End() == n.Left() {
			return !isAltShade(children, j, depth+1)
		}
	}
	return false
}

func (m Model) shadeStyle(s view.Shade) lipgloss.Style {
	switch s {
	case view.ShadeAbsence:
		return m.styles.AbsenceCellStyle
	case view.ShadeVacation:
		return m.styles.VacationCellStyle
	case view.ShadeDrop:
		return m.styles.DropCellStyle
	}
	return m.styles.EmptyCellStyle
}

// renderScrollbar draws the master scrollbar under the rows.
func (m Model) renderScrollbar() string {
	v := m.board.View()
	g := m.board.Geometry()
	track := v.VisibleWidth()
	lead := m.styles.ScrollTrackStyle.Render(strings.Repeat(" ", m.frozenWidth()))
	if track <= 0 {
		return lead
	}

	total := max(g.ToPixels(g.TotalSlots), 1)
	thumbW := min(max(track*track/total, 1), track)
	thumbX := v.Scrollbar().ScrollLeft() * track / total
	thumbX = min(thumbX, track-thumbW)

	return lead +
		m.styles.ScrollTrackStyle.Render(strings.Repeat("─", thumbX)) +
		m.styles.ScrollThumbStyle.Render(strings.Repeat("━", thumbW)) +
		m.styles.ScrollTrackStyle.Render(strings.Repeat("─", track-thumbX-thumbW))
}

func (m Model) renderFooter() string {
	status := ""
	if m.statusMsg != "" {
		style := m.styles.StatusStyle
		if m.statusError {
			style = m.styles.StatusErrorStyle
		}
		status = style.Render(" " + m.statusMsg)
	} else if m.loading {
		status = m.styles.HelpStyle.Render(" Refreshing...")
	} else if n := m.selectedNode(); n != nil {
		first, last := m.board.Geometry().Span(n.StartSlot, n.Duration)
		status = m.styles.HelpStyle.Render(fmt.Sprintf(" %s  %s %s → %s %s",
			n.ID, first.DayName, first.Label(), last.DayName, last.Label()))
	}

	footer, _ := view.RenderFooter(status, m.help.View(m.keys), m.width, m.styles.palette.Bg)
	return footer
}

func (m Model) renderConfirmDelete() string {
	id := m.confirm.TaskID()
	model := view.ConfirmDeleteModel{TaskID: id}
	if n := m.board.View().Node(id); n != nil {
		first, last := m.board.Geometry().Span(n.StartSlot, n.Duration)
		model.Name = n.Task.Name
		model.JobName = n.Task.JobName
		model.Span = fmt.Sprintf("%s %s - %s %s", first.DayName, first.Label(), last.DayName, last.Label())
	}
	return view.RenderConfirmDelete(model, view.ModalStyles{
		ModalTitleStyle:        m.styles.ModalTitleStyle,
		ModalStyle:             m.styles.ModalStyle,
		ModalButtonStyle:       m.styles.ModalHintStyle,
		ModalButtonActiveStyle: m.styles.ModalTitleStyle,
		ModalBodyStyle:         m.styles.ModalBodyStyle,
		ModalHintStyle:         m.styles.ModalHintStyle,
	})
}
