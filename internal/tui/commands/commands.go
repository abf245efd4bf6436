// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/task"
)

// Source is the part of the planning client the TUI loads data through.
type Source interface {
	Snapshot(ctx context.Context) (*task.Snapshot, error)
	Reload(ctx context.Context) (*planning.Result, error)
}

// SnapshotLoadedMsg is sent when a full board snapshot is fetched.
type SnapshotLoadedMsg struct {
	Snapshot *task.Snapshot
}

// DataReloadedMsg is sent when the backend has reloaded its data from the
// source system.
type DataReloadedMsg struct {
	Message string
}

// RefreshMsg asks the model to fetch a fresh snapshot and rebuild the board.
type RefreshMsg struct{}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg   string
	Error bool
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

var clipboardWrite = clipboard.WriteAll

// SetClipboardWriter replaces the clipboard writer and returns the previous one.
func SetClipboardWriter(fn func(string) error) func(string) error {
	prev := clipboardWrite
	clipboardWrite = fn
	return prev
}

// LoadSnapshot fetches the whole board.
func LoadSnapshot(src Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := src.Snapshot(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading board: %w", err)}
		}
		return SnapshotLoadedMsg{Snapshot: snap}
	}
}

// ReloadData asks the backend to reload its data.
func ReloadData(src Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := src.Reload(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("reloading data: %w", err)}
		}
		msg := res.Message
		if msg == "" {
			msg = "Data reloaded"
		}
		return DataReloadedMsg{Message: msg}
	}
}

// RefreshAfter schedules a RefreshMsg.
func RefreshAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return RefreshMsg{}
	})
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return StatusMsgCmd{Msg: fmt.Sprintf("Copy failed: %v", err), Error: true}
		}
		return StatusMsgCmd{Msg: "Copied " + what}
	}
}
