package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/board"
	"github.com/javiermolinar/planboard/internal/tui/commands"
)

const (
	statusDuration      = 3 * time.Second
	errorStatusDuration = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.board == nil {
			return m, nil
		}
		return m, m.board.View().SetClientWidth(m.width)

	case commands.SnapshotLoadedMsg:
		m.loading = false
		m.err = nil
		if m.board == nil {
			m.board = board.New(msg.Snapshot, m.backend, m.boardOpts)
			return m, m.board.View().SetClientWidth(m.width)
		}
		m.board.Rebuild(msg.Snapshot)
		return m, nil

	case commands.RefreshMsg:
		m.loading = true
		return m, commands.LoadSnapshot(m.backend, m.requestTimeout())

	case commands.DataReloadedMsg:
		m.setStatus(msg.Message, false)
		return m, tea.Batch(
			m.clearStatusAfter(statusDuration),
			commands.RefreshAfter(reloadRefreshDelay),
		)

	case commands.ErrMsg:
		traceError("command", msg.Err)
		m.err = msg.Err
		m.loading = false
		m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true)
		return m, m.clearStatusAfter(errorStatusDuration)

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg, msg.Error)
		return m, m.clearStatusAfter(statusDuration)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusError = false
		}
		return m, nil

	case board.NotifyMsg:
		isErr := msg.Level == board.LevelError
		m.setStatus(msg.Text, isErr)
		d := statusDuration
		if isErr {
			d = errorStatusDuration
		}
		return m, m.clearStatusAfter(d)

	case board.ReloadMsg:
		// The live view can no longer be trusted: rebuild it from scratch.
		m.loading = true
		return m, commands.LoadSnapshot(m.backend, m.requestTimeout())

	case board.ConfirmDeleteMsg:
		m.confirm.Show(msg.TaskID)
		return m, nil
	}

	if m.board != nil {
		if cmd, ok := m.board.Update(msg); ok {
			return m, cmd
		}
	}
	return m, nil
}

// setStatus shows a message in the footer.
func (m *Model) setStatus(text string, isErr bool) {
	m.statusMsg = text
	m.statusError = isErr
}

// clearStatusAfter stamps the current message's expiry and schedules the clear.
func (m *Model) clearStatusAfter(d time.Duration) tea.Cmd {
	m.statusTime = m.now().Add(d)
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}
