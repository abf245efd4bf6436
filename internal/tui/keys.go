package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/board"
	"github.com/javiermolinar/planboard/internal/tui/commands"
)

type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	Grow        key.Binding
	Shrink      key.Binding
	Delete      key.Binding
	Next        key.Binding
	Prev        key.Binding
	Clear       key.Binding
	Open        key.Binding
	Copy        key.Binding
	Refresh     key.Binding
	Reload      key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	Home        key.Binding
	End         key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "operator above")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "operator below")),
		Grow:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "longer")),
		Shrink:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shorter")),
		Delete:      key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "delete")),
		Next:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next task")),
		Prev:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "previous task")),
		Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "deselect")),
		Open:        key.NewBinding(key.WithKeys("o", "enter"), key.WithHelp("o", "open in Odoo")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Reload:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload data")),
		ScrollLeft:  key.NewBinding(key.WithKeys("H", "shift+left", "pgup"), key.WithHelp("H", "scroll back")),
		ScrollRight: key.NewBinding(key.WithKeys("L", "shift+right", "pgdown"), key.WithHelp("L", "scroll on")),
		Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "start")),
		End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "end")),
		Confirm:     key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Grow, k.Shrink, k.Next, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Grow, k.Shrink},
		{k.Next, k.Prev, k.Clear, k.Delete},
		{k.Open, k.Copy, k.Refresh, k.Reload},
		{k.ScrollLeft, k.ScrollRight, k.Home, k.End, k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	traceKey(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.confirm.Open() {
		return m.handleConfirmKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.setStatus("Reloading data...", false)
		return m, commands.ReloadData(m.backend, m.requestTimeout())
	}

	if m.board == nil {
		return m, nil
	}
	return m.handleBoardKeys(msg)
}

// handleBoardKeys handles keys that act on the board.
func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.board

	// Step keys go to the board under their canonical names so vim
	// bindings behave like the arrows.
	if name, ok := m.boardKeyName(msg); ok {
		cmd, handled := b.Keys.HandleKey(name)
		if handled {
			return m, cmd
		}
		switch name {
		case "left":
			return m, b.Scroll.ScrollBy(-b.Geometry().Width())
		case "right":
			return m, b.Scroll.ScrollBy(b.Geometry().Width())
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m, m.cycleSelection(1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.cycleSelection(-1)
	case key.Matches(msg, m.keys.Clear):
		b.Selection.Clear()
		b.Tooltip.Leave()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		n := b.Selection.Current()
		if n == nil {
			return m, nil
		}
		if !b.Links.Enabled() {
			m.setStatus("No Odoo URL template configured", true)
			return m, m.clearStatusAfter(statusDuration)
		}
		if err := b.Links.Open(n.ID); err != nil {
			traceError("open link", err)
			m.setStatus("Could not open the link: "+err.Error(), true)
			return m, m.clearStatusAfter(statusDuration)
		}
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		n := b.Selection.Current()
		if n == nil {
			return m, nil
		}
		url, ok := b.Links.URL(n.ID)
		if !ok {
			url = n.ID
		}
		return m, commands.CopyToClipboard(url, "link for "+n.ID)
	case key.Matches(msg, m.keys.Refresh):
		focus := ""
		if n := b.Selection.Current(); n != nil {
			focus = n.ID
		}
		return m, b.Reconciler.Reconcile(focus, focus != "")
	case key.Matches(msg, m.keys.ScrollLeft):
		return m, b.Scroll.ScrollBy(-b.View().VisibleWidth() / 2)
	case key.Matches(msg, m.keys.ScrollRight):
		return m, b.Scroll.ScrollBy(b.View().VisibleWidth() / 2)
	case key.Matches(msg, m.keys.Home):
		return m, b.View().Scrollbar().SetScrollLeft(0)
	case key.Matches(msg, m.keys.End):
		g := b.Geometry()
		return m, b.View().Scrollbar().SetScrollLeft(g.ToPixels(g.TotalSlots))
	}
	return m, nil
}

// boardKeyName maps a key to the name the board's keyboard controller knows.
func (m Model) boardKeyName(msg tea.KeyMsg) (string, bool) {
	switch {
	case key.Matches(msg, m.keys.Left):
		return "left", true
	case key.Matches(msg, m.keys.Right):
		return "right", true
	case key.Matches(msg, m.keys.Up):
		return "up", true
	case key.Matches(msg, m.keys.Down):
		return "down", true
	case key.Matches(msg, m.keys.Grow):
		return "+", true
	case key.Matches(msg, m.keys.Shrink):
		return "-", true
	case key.Matches(msg, m.keys.Delete):
		return "delete", true
	}
	return "", false
}

// cycleSelection selects the next task in reading order (row, then time)
// and scrolls it into view.
func (m Model) cycleSelection(step int) tea.Cmd {
	b := m.board
	var nodes []*board.TaskNode
	for _, n := range b.View().Nodes() {
		if n.Parent() != nil {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	sort.Slice(nodes, func(i, j int) bool {
		ri, rj := nodes[i].Parent().Index(), nodes[j].Parent().Index()
		if ri != rj {
			return ri < rj
		}
		if nodes[i].StartSlot != nodes[j].StartSlot {
			return nodes[i].StartSlot < nodes[j].StartSlot
		}
		return nodes[i].ID < nodes[j].ID
	})

	idx := -1
	if cur := b.Selection.Current(); cur != nil {
		for i, n := range nodes {
			if n == cur {
				idx = i
				break
			}
		}
	}
	switch {
	case idx < 0 && step < 0:
		idx = len(nodes) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + step + len(nodes)) % len(nodes)
	}

	n := nodes[idx]
	b.Selection.Select(n)
	return b.Reconciler.Follow(n)
}

// handleConfirmKeys handles keys while the delete confirmation is open.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.confirm.TaskID()
		m.confirm.Dismiss()
		if m.board == nil {
			return m, nil
		}
		return m, m.board.Keys.Delete(id)
	case key.Matches(msg, m.keys.Cancel):
		m.confirm.Dismiss()
	}
	return m, nil
}

// selectedNode returns the selected task, or nil.
func (m Model) selectedNode() *board.TaskNode {
	if m.board == nil {
		return nil
	}
	return m.board.Selection.Current()
}
