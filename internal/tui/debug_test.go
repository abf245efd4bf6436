package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestJournal(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2025, 8, 11, 9, 30, 0, 0, time.UTC)
	trace = newJournal(&buf, func() time.Time { return at })
	defer func() { trace = nil }()

	traceKey(tea.KeyMsg{Type: tea.KeyRight})
	traceMouse(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionMotion})
	traceMouse(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	traceError("command", errors.New("boom"))
	traceBoard("drop", map[string]any{"task": "T1", "seq": "ignored"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d entries, want 4 (motion skipped):\n%s", len(lines), buf.String())
	}

	var entries []map[string]any
	for _, l := range lines {
		var e map[string]any
		if err := json.Unmarshal([]byte(l), &e); err != nil {
			t.Fatalf("invalid JSON %q: %v", l, err)
		}
		entries = append(entries, e)
	}

	if entries[0]["event"] != "key" || entries[0]["key"] != "right" {
		t.Errorf("key entry = %v", entries[0])
	}
	if entries[1]["event"] != "mouse" || entries[1]["x"] != float64(3) {
		t.Errorf("mouse entry = %v", entries[1])
	}
	if entries[2]["error"] != "boom" || entries[2]["where"] != "command" {
		t.Errorf("error entry = %v", entries[2])
	}
	if entries[3]["task"] != "T1" || entries[3]["seq"] != float64(4) {
		t.Errorf("board entry = %v", entries[3])
	}
	if entries[0]["ts"] != "09:30:00.000" {
		t.Errorf("ts = %v", entries[0]["ts"])
	}
}

func TestJournal_Disabled(t *testing.T) {
	trace = nil
	traceKey(tea.KeyMsg{Type: tea.KeyEnter})
	traceError("x", errors.New("y"))

	closeTrace, err := openTrace(false)
	if err != nil {
		t.Fatalf("openTrace(false): %v", err)
	}
	closeTrace()
	if trace != nil {
		t.Error("disabled trace left a journal behind")
	}
}
