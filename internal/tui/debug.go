package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TracePath is where --debug writes its JSON lines.
const TracePath = "planboard-debug.log"

// journal writes one JSON object per line for input events, errors and
// board transitions. A nil journal drops everything.
type journal struct {
	mu  sync.Mutex
	w   io.Writer
	seq int
	now func() time.Time
}

var trace *journal

func newJournal(w io.Writer, now func() time.Time) *journal {
	return &journal{w: w, now: now}
}

// openTrace starts the journal at TracePath. The returned func closes it.
func openTrace(enabled bool) (func(), error) {
	if !enabled {
		trace = nil
		return func() {}, nil
	}
	f, err := os.Create(TracePath)
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}
	trace = newJournal(f, time.Now)
	trace.record("trace_start", map[string]any{"file": TracePath})
	return func() {
		trace.record("trace_end", nil)
		trace = nil
		_ = f.Close()
	}, nil
}

func (j *journal) record(event string, data map[string]any) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	j.seq++
	entry := map[string]any{}
	maps.Copy(entry, data)
	entry["seq"] = j.seq
	entry["ts"] = j.now().Format("15:04:05.000")
	entry["event"] = event

	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"seq": j.seq, "event": event, "marshal_error": err.Error()})
	}
	_, _ = fmt.Fprintf(j.w, "%s\n", b)
}

func traceKey(msg tea.KeyMsg) {
	trace.record("key", map[string]any{"key": msg.String()})
}

// traceMouse skips motion, which fires on every cell.
func traceMouse(msg tea.MouseMsg) {
	if msg.Action == tea.MouseActionMotion {
		return
	}
	trace.record("mouse", map[string]any{"event": msg.String(), "x": msg.X, "y": msg.Y})
}

func traceError(where string, err error) {
	trace.record("error", map[string]any{"where": where, "error": err.Error()})
}

// traceBoard is the board's trace sink.
func traceBoard(event string, data map[string]any) {
	trace.record(event, data)
}
