package board

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/task"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// NotifyMsg asks the UI to show a transient notification.
type NotifyMsg struct {
	Text  string
	Level Level
}

// ReloadMsg asks the UI to throw the board away and rebuild it from a fresh
// snapshot. It is sent when reconciliation cannot fetch the snapshot.
type ReloadMsg struct {
	Err error
}

// ConfirmDeleteMsg asks the UI to confirm the deletion of a task.
type ConfirmDeleteMsg struct {
	TaskID string
}

type scrollSettledMsg struct {
	seq int
}

type fadeMsg struct {
	id string
}

type graceExpiredMsg struct {
	id       string
	deadline time.Time
}

type moveResultMsg struct {
	id  string
	err error
}

type resizeResultMsg struct {
	id           string
	prevDuration int
	err          error
}

type keyboardResultMsg struct {
	id  string
	err error
}

type reconcileMsg struct {
	focusID    string
	autoScroll bool
}

type snapshotMsg struct {
	snap       *task.Snapshot
	focusID    string
	autoScroll bool
	err        error
}

type focusRetryMsg struct {
	id         string
	autoScroll bool
	attempt    int
}

type tooltipMsg struct {
	seq int
}

// After delivers msg once d has elapsed.
type After func(d time.Duration, msg tea.Msg) tea.Cmd

// Tick is the After used outside tests.
func Tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func notify(level Level, text string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Text: text, Level: level}
	}
}
