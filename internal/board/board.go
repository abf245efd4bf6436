// Package board is the interactive core of the planning board: gesture
// controllers, scroll synchronization and reconciliation of server snapshots
// into the live view.
//
// Everything runs on the bubbletea update loop. Controllers mutate the view
// synchronously and return commands for backend requests and timers; the
// resulting messages come back through Board.Update.
package board

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/config"
	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/slot"
	"github.com/javiermolinar/planboard/internal/task"
)

// User-facing failure messages.
const (
	MsgCommError    = "Communication error with the server"
	MsgMoveFailed   = "Could not move the task"
	MsgResizeFailed = "Could not resize the task"
	MsgKeyFailed    = "Could not update the task"
)

// Backend is the scheduling service the board talks to.
// *planning.Client implements it.
type Backend interface {
	Move(ctx context.Context, req planning.MoveRequest) (*planning.Result, error)
	Resize(ctx context.Context, req planning.ResizeRequest) (*planning.Result, error)
	KeyboardMove(ctx context.Context, req planning.KeyboardMoveRequest) (*planning.Result, error)
	Snapshot(ctx context.Context) (*task.Snapshot, error)
}

// Options configures a Board. Zero durations take the defaults below.
type Options struct {
	Geometry           slot.Geometry
	FrozenColumnWidth  int
	HeaderHeight       int
	GraceWindow        time.Duration
	SettleDelay        time.Duration
	HoverDelay         time.Duration
	ResizeRefreshDelay time.Duration
	FocusRetryDelays   []time.Duration
	DoubleClickWindow  time.Duration
	RequestTimeout     time.Duration
	URLTemplate        string

	Open    Opener                                  // Opens deep links; DefaultOpener when nil
	Measure func(Tooltip) (w, h int)                // Rendered tooltip size
	After   After                                   // Timer source; Tick when nil
	Now     func() time.Time                        // Clock; time.Now when nil
	Trace   func(event string, data map[string]any) // Debug event sink
}

// Defaults.
const (
	DefaultGraceWindow        = 2 * time.Second
	DefaultSettleDelay        = 10 * time.Millisecond
	DefaultHoverDelay         = 500 * time.Millisecond
	DefaultResizeRefreshDelay = 50 * time.Millisecond
	DefaultDoubleClickWindow  = 400 * time.Millisecond
	DefaultRequestTimeout     = 10 * time.Second
	DefaultFrozenColumnWidth  = 16
)

// DefaultFocusRetryDelays are the waits before the two extra focus attempts.
var DefaultFocusRetryDelays = []time.Duration{20 * time.Millisecond, 50 * time.Millisecond}

// OptionsFromConfig maps the [board] and [odoo] config sections to Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Geometry:           cfg.Geometry(),
		FrozenColumnWidth:  cfg.Board.FrozenColumnWidth,
		GraceWindow:        cfg.Board.GraceWindow.D(),
		SettleDelay:        cfg.Board.SettleDelay.D(),
		HoverDelay:         cfg.Board.HoverDelay.D(),
		ResizeRefreshDelay: cfg.Board.ResizeRefresh.D(),
		FocusRetryDelays:   cfg.FocusRetries(),
		DoubleClickWindow:  cfg.Board.DoubleClickWindow.D(),
		RequestTimeout:     cfg.Board.RequestTimeout.D(),
		URLTemplate:        cfg.Odoo.URLTemplate,
	}
}

func (o Options) withDefaults() Options {
	if o.Geometry.SlotWidth <= 0 || o.Geometry.TotalSlots <= 0 {
		o.Geometry = slot.New(o.Geometry.SlotWidth, o.Geometry.TotalSlots, o.Geometry.Anchor)
	}
	if o.FrozenColumnWidth <= 0 {
		o.FrozenColumnWidth = DefaultFrozenColumnWidth
	}
	if o.GraceWindow <= 0 {
		o.GraceWindow = DefaultGraceWindow
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.HoverDelay <= 0 {
		o.HoverDelay = DefaultHoverDelay
	}
	if o.ResizeRefreshDelay <= 0 {
		o.ResizeRefreshDelay = DefaultResizeRefreshDelay
	}
	if o.FocusRetryDelays == nil {
		o.FocusRetryDelays = DefaultFocusRetryDelays
	}
	if o.DoubleClickWindow <= 0 {
		o.DoubleClickWindow = DefaultDoubleClickWindow
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.Open == nil {
		o.Open = DefaultOpener
	}
	if o.Measure == nil {
		o.Measure = measureTooltip
	}
	if o.After == nil {
		o.After = Tick
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Board owns the view, the session and the controllers that act on them.
type Board struct {
	opts    Options
	backend Backend
	view    *View
	session *Session

	Scroll     *ScrollSync
	Selection  *Selection
	Drag       *DragController
	Resize     *ResizeController
	Keys       *KeyboardController
	Reconciler *Reconciler
	Tooltip    *TooltipController
	Links      *DeepLinker
	Touch      *TouchTracker
	Pointer    *Pointer
}

// New builds a board from an initial snapshot.
func New(snap *task.Snapshot, backend Backend, opts Options) *Board {
	opts = opts.withDefaults()
	b := &Board{
		opts:    opts,
		backend: backend,
		session: NewSession(opts.Now),
	}
	b.Scroll = &ScrollSync{b: b}
	b.Selection = &Selection{b: b}
	b.Drag = &DragController{b: b}
	b.Resize = &ResizeController{b: b}
	b.Keys = &KeyboardController{b: b}
	b.Reconciler = &Reconciler{b: b}
	b.Tooltip = &TooltipController{b: b}
	b.Links = NewDeepLinker(opts.URLTemplate, opts.Open)
	b.Touch = &TouchTracker{}
	b.Pointer = &Pointer{b: b}
	b.mount(Build(snap, opts.Geometry, opts.FrozenColumnWidth, opts.HeaderHeight))
	return b
}

// Rebuild replaces the view with one built from snap. Gestures and selection
// are dropped; grace protections are kept, they are keyed by task id.
func (b *Board) Rebuild(snap *task.Snapshot) {
	old := b.view
	v := Build(snap, b.opts.Geometry, b.opts.FrozenColumnWidth, old.headerHeight)
	v.scrollbar.clientWidth = old.scrollbar.clientWidth
	v.scrollbar.left = v.clampScroll(old.scrollbar.left)
	v.headerOffset = v.scrollbar.left
	for _, r := range v.rows {
		r.scrollLeft = v.scrollbar.left
	}

	b.session.selected = nil
	b.session.clearDrag()
	b.session.clearResize()
	b.Tooltip.Leave()
	b.Pointer.reset()
	b.mount(v)
	b.trace("BOARD_REBUILD", map[string]any{"tasks": len(v.nodes), "rows": len(v.rows)})
}

func (b *Board) mount(v *View) {
	v.onScroll = b.Scroll.OnScroll
	b.view = v
}

// View returns the live view.
func (b *Board) View() *View { return b.view }

// Session returns the gesture state.
func (b *Board) Session() *Session { return b.session }

// Geometry returns the slot geometry.
func (b *Board) Geometry() slot.Geometry { return b.opts.Geometry }

// Update routes the board's own messages. It reports false for messages
// that belong to someone else.
func (b *Board) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case scrollSettledMsg:
		return b.Scroll.settle(msg), true
	case fadeMsg:
		b.Drag.fade(msg)
		return nil, true
	case moveResultMsg:
		return b.Drag.result(msg), true
	case resizeResultMsg:
		return b.Resize.result(msg), true
	case graceExpiredMsg:
		b.Resize.expire(msg)
		return nil, true
	case keyboardResultMsg:
		return b.Keys.result(msg), true
	case reconcileMsg:
		return b.Reconciler.Reconcile(msg.focusID, msg.autoScroll), true
	case snapshotMsg:
		return b.Reconciler.handleSnapshot(msg), true
	case focusRetryMsg:
		return b.Reconciler.restoreFocus(msg.id, msg.autoScroll, msg.attempt), true
	case tooltipMsg:
		b.Tooltip.show(msg)
		return nil, true
	}
	return nil, false
}

func (b *Board) after(d time.Duration, msg tea.Msg) tea.Cmd {
	return b.opts.After(d, msg)
}

func (b *Board) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.opts.RequestTimeout)
}

func (b *Board) trace(event string, data map[string]any) {
	if b.opts.Trace != nil {
		b.opts.Trace(event, data)
	}
}

// failureText picks the message shown for a failed request: the server's own
// text when it sent one, generic otherwise, and the communication error for
// transport failures.
func failureText(err error, generic string) string {
	var se *planning.ServerError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return generic
	}
	return MsgCommError
}
