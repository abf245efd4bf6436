package board

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Pointer turns raw press, motion and release events into gestures the way a
// browser does: a press on a task's right edge starts a resize, a press then
// motion starts a drag, and motion without a button is hover.
type Pointer struct {
	b *Board

	pressed   bool
	pressedOn *TaskNode
	pressAt   Point

	over    Cell
	hasOver bool
	hovered string
}

// Down handles a button press at screen point at.
func (p *Pointer) Down(at Point) tea.Cmd {
	b := p.b
	p.reset()
	p.pressed = true
	p.pressAt = at
	b.Tooltip.Leave()

	n := b.view.NodeAt(at)
	if n == nil {
		b.Selection.Clear()
		return nil
	}
	b.Selection.Select(n)

	if b.view.OnHandle(n, at) {
		if err := b.Resize.Start(n.ID, at.X, ResizeRight); err != nil {
			b.trace("RESIZE_REFUSED", map[string]any{"task": n.ID, "error": err.Error()})
		}
		return nil
	}
	p.pressedOn = n

	if b.Links.click(n.ID, b.opts.Now(), b.opts.DoubleClickWindow) {
		if err := b.Links.Open(n.ID); err != nil {
			return notify(LevelError, err.Error())
		}
	}
	return nil
}

// Motion handles pointer movement to at.
func (p *Pointer) Motion(at Point) tea.Cmd {
	b := p.b
	if b.Resize.Active() {
		b.Resize.Move(at.X)
		return nil
	}
	if !p.pressed {
		return p.hover(at)
	}

	var cmd tea.Cmd
	if !b.Drag.Active() && p.pressedOn != nil && at != p.pressAt {
		var err error
		if cmd, err = b.Drag.Start(p.pressedOn.ID); err != nil {
			b.trace("DRAG_REFUSED", map[string]any{"task": p.pressedOn.ID, "error": err.Error()})
			p.pressedOn = nil
			return nil
		}
	}
	if !b.Drag.Active() {
		return cmd
	}

	cell, ok := b.view.CellAt(at)
	if p.hasOver && (!ok || cell != p.over) {
		b.Drag.Leave(p.over, b.view.Content(at))
	}
	p.over, p.hasOver = cell, ok
	if ok {
		b.Drag.Over(cell)
	}
	return cmd
}

// Up handles the button release at at, ending any gesture.
func (p *Pointer) Up(at Point) tea.Cmd {
	b := p.b
	defer p.reset()

	if b.Resize.Active() {
		return b.Resize.Stop()
	}
	if b.Drag.Active() {
		if cell, ok := b.view.CellAt(at); ok {
			return b.Drag.Drop(cell)
		}
		b.Drag.End()
	}
	return nil
}

// Exit handles the pointer leaving the board.
func (p *Pointer) Exit() {
	p.hovered = ""
	p.b.Tooltip.Leave()
}

func (p *Pointer) hover(at Point) tea.Cmd {
	n := p.b.view.NodeAt(at)
	if n == nil {
		if p.hovered != "" {
			p.Exit()
		}
		return nil
	}
	if n.ID == p.hovered {
		return nil
	}
	p.hovered = n.ID
	return p.b.Tooltip.Enter(n.ID)
}

func (p *Pointer) reset() {
	p.pressed = false
	p.pressedOn = nil
	p.pressAt = Point{}
	p.over = Cell{}
	p.hasOver = false
}
