// Package tui provides the terminal user interface for planboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/board"
	"github.com/javiermolinar/planboard/internal/config"
	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/tui/commands"
	"github.com/javiermolinar/planboard/internal/tui/theme"
)

// headerLines is the height of the time header above the first operator row.
const headerLines = 3

// reloadRefreshDelay is how long the reload message stays up before the
// board is rebuilt from fresh data.
const reloadRefreshDelay = time.Second

// Backend is everything the TUI needs from the planning server.
// *planning.Client implements it.
type Backend interface {
	board.Backend
	Reload(ctx context.Context) (*planning.Result, error)
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	backend Backend
	config  *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Board engine, nil until the first snapshot arrives
	board     *board.Board
	boardOpts board.Options
	loading   bool

	// Input
	keys keyMap
	help help.Model

	// Delete confirmation
	confirm confirmDialog

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg   string    // Temporary status/error message
	statusError bool      // Render statusMsg as an error
	statusTime  time.Time // When to clear message

	now func() time.Time

	// Error state
	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithBoardOptions adjusts the options the board is built with.
func WithBoardOptions(fn func(*board.Options)) ModelOption {
	return func(m *Model) {
		fn(&m.boardOpts)
	}
}

// WithNow replaces the clock used for status expiry.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a new TUI model.
func New(backend Backend, cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.LoadWithDir(theme.UserDir(), cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	boardOpts := board.OptionsFromConfig(cfg)
	boardOpts.HeaderHeight = headerLines
	boardOpts.Trace = traceBoard

	h := help.New()
	h.Styles.ShortKey = styles.HelpStyle.Bold(true)
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.FullKey = styles.HelpStyle.Bold(true)
	h.Styles.FullDesc = styles.HelpStyle

	m := &Model{
		backend:   backend,
		config:    cfg,
		theme:     t,
		styles:    styles,
		boardOpts: boardOpts,
		loading:   true,
		keys:      newKeyMap(),
		help:      h,
		confirm:   newConfirmDialog(styles.ModalBgColor),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadSnapshot(m.backend, m.requestTimeout())
}

// Board returns the board engine, nil before the first snapshot.
func (m Model) Board() *board.Board {
	return m.board
}

func (m Model) requestTimeout() time.Duration {
	if d := m.boardOpts.RequestTimeout; d > 0 {
		return d
	}
	return board.DefaultRequestTimeout
}

// Run starts the TUI.
func Run(backend Backend, cfg *config.Config) error {
	return RunWithDebug(backend, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(backend Backend, cfg *config.Config, debug bool) error {
	closeTrace, err := openTrace(debug)
	if err != nil {
		return err
	}
	defer closeTrace()

	model := New(backend, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}
