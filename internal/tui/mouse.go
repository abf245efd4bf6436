package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/board"
)

// wheelSlots is how many slots one wheel notch scrolls.
const wheelSlots = 2

// handleMouseMsg feeds terminal mouse events to the board's pointer adapter.
// Terminal cells map one to one onto board pixels.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	traceMouse(msg)
	if m.board == nil || m.confirm.Open() {
		return m, nil
	}
	b := m.board
	at := board.Point{X: msg.X, Y: msg.Y}

	if tea.MouseEvent(msg).IsWheel() {
		step := b.Geometry().ToPixels(wheelSlots)
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
			return m, b.Scroll.ScrollBy(-step)
		case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
			return m, b.Scroll.ScrollBy(step)
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.onScrollbar(at) {
			return m, m.jumpScrollbar(at.X)
		}
		return m, b.Pointer.Down(at)

	case tea.MouseActionMotion:
		if !m.insideBoard(at) && !b.Drag.Active() && !b.Resize.Active() {
			b.Pointer.Exit()
			return m, nil
		}
		return m, b.Pointer.Motion(at)

	case tea.MouseActionRelease:
		return m, b.Pointer.Up(at)
	}
	return m, nil
}

// insideBoard reports whether at lies on the header or an operator row.
func (m Model) insideBoard(at board.Point) bool {
	rows := len(m.board.View().Rows())
	return at.X >= 0 && at.X < m.width && at.Y >= 0 && at.Y < headerLines+rows
}

func (m Model) scrollbarLine() int {
	return headerLines + len(m.board.View().Rows())
}

func (m Model) onScrollbar(at board.Point) bool {
	return at.Y == m.scrollbarLine() && at.X >= m.board.View().FrozenWidth()
}

// jumpScrollbar centers the visible window on the clicked track position.
func (m Model) jumpScrollbar(x int) tea.Cmd {
	v := m.board.View()
	g := m.board.Geometry()
	track := v.VisibleWidth()
	if track <= 0 {
		return nil
	}
	total := g.ToPixels(g.TotalSlots)
	pos := (x - v.FrozenWidth()) * total / track
	return v.Scrollbar().SetScrollLeft(pos - track/2)
}
