package board

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/slot"
	"github.com/javiermolinar/planboard/internal/task"
)

// Point is a position in cells. Y is a line, X a column.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Cell addresses one slot of one operator row.
type Cell struct {
	OperatorID int
	Slot       int
}

// Stats counts view mutations.
type Stats struct {
	GeometryWrites      int
	Reparents           int
	ScrollWrites        int
	HeaderWrites        int
	ScrollEventsDropped int
	Rejected            int // Snapshot tasks violating the axis bounds
}

// TaskNode is the live view of one task.
// Metadata always mirrors the last snapshot; geometry may lag behind it
// while the task is being resized or is protected.
type TaskNode struct {
	ID         string
	OperatorID int
	StartSlot  int
	Duration   int
	JobID      int
	Task       task.Task // Descriptive payload

	left, width int
	opacity     float64
	dragging    bool
	resizing    bool
	selected    bool
	focused     bool

	parent *Row
}

func (n *TaskNode) Left() int { return n.left }
func (n *TaskNode) Width() int { return n.width }
func (n *TaskNode) Opacity() float64 { return n.opacity }
func (n *TaskNode) IsDragging() bool { return n.dragging }
func (n *TaskNode) IsResizing() bool { return n.resizing }
func (n *TaskNode) IsSelected() bool { return n.selected }
func (n *TaskNode) IsFocused() bool { return n.focused }
func (n *TaskNode) Parent() *Row { return n.parent }
func (n *TaskNode) End() int { return n.left + n.width }

func (n *TaskNode) setMeta(t task.Task) {
	n.OperatorID = t.OperatorID
	n.StartSlot = t.StartSlot
	n.Duration = t.Duration
	n.JobID = t.JobID
	n.Task = t
}

// setDetails writes everything but the position: the node keeps its
// operator, start and duration.
func (n *TaskNode) setDetails(t task.Task) {
	t.OperatorID, t.StartSlot, t.Duration = n.OperatorID, n.StartSlot, n.Duration
	n.setMeta(t)
}

// Row is the scroll container of one operator.
type Row struct {
	OperatorID int
	Name       string

	absences   map[int]bool
	index      int
	children   []*TaskNode
	scrollLeft int
	view       *View
}

// Index returns the row position, top to bottom.
func (r *Row) Index() int { return r.index }

// Children returns the task nodes placed in the row.
func (r *Row) Children() []*TaskNode {
	out := make([]*TaskNode, len(r.children))
	copy(out, r.children)
	return out
}

// Contains reports whether n is a child of r.
func (r *Row) Contains(n *TaskNode) bool {
	return n != nil && n.parent == r
}

// IsAbsent reports whether the operator is away at slot.
func (r *Row) IsAbsent(slot int) bool {
	return r.absences[slot]
}

func (r *Row) ScrollLeft() int { return r.scrollLeft }

// SetScrollLeft scrolls the row. Like a browser scroll container, a change
// fires the row's scroll event synchronously.
func (r *Row) SetScrollLeft(px int) tea.Cmd {
	px = r.view.clampScroll(px)
	if px == r.scrollLeft {
		return nil
	}
	r.scrollLeft = px
	r.view.stats.ScrollWrites++
	return r.view.dispatchScroll(r)
}

func (r *Row) remove(n *TaskNode) {
	for i, c := range r.children {
		if c == n {
			r.children = append(r.children[:i], r.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Scrollbar is the master horizontal scrollbar.
type Scrollbar struct {
	left        int
	clientWidth int
	view        *View
}

func (s *Scrollbar) ScrollLeft() int { return s.left }
func (s *Scrollbar) ClientWidth() int { return s.clientWidth }

// SetScrollLeft scrolls the master bar and fires its scroll event.
func (s *Scrollbar) SetScrollLeft(px int) tea.Cmd {
	px = s.view.clampScroll(px)
	if px == s.left {
		return nil
	}
	s.left = px
	s.view.stats.ScrollWrites++
	return s.view.dispatchScroll(s)
}

// Scroller is anything that scrolls horizontally and fires scroll events.
type Scroller interface {
	ScrollLeft() int
	SetScrollLeft(px int) tea.Cmd
}

// View is the live board: rows of task nodes plus the scroll containers.
type View struct {
	geo          slot.Geometry
	frozen       int
	headerHeight int

	rows    []*Row
	rowByOp map[int]*Row
	nodes   map[string]*TaskNode
	order   []string

	jobs      map[int]task.Job
	vacations map[int]bool

	scrollbar    *Scrollbar
	headerOffset int

	dropMarks           map[Cell]bool
	dragActive          bool
	pointerCaptured     bool
	selectionSuppressed bool
	focused             *TaskNode

	onScroll func(Scroller) tea.Cmd
	stats    Stats
}

// Build creates the view of a snapshot. Tasks whose operator has no row are left out.
func Build(snap *task.Snapshot, g slot.Geometry, frozenWidth, headerHeight int) *View {
	v := &View{
		geo:          g,
		frozen:       frozenWidth,
		headerHeight: headerHeight,
		rowByOp:      make(map[int]*Row),
		nodes:        make(map[string]*TaskNode),
		jobs:         make(map[int]task.Job),
		vacations:    make(map[int]bool),
		dropMarks:    make(map[Cell]bool),
	}
	v.scrollbar = &Scrollbar{view: v}
	if snap == nil {
		return v
	}

	for i, op := range snap.Operators {
		row := &Row{
			OperatorID: op.ID,
			Name:       op.Name,
			absences:   make(map[int]bool, len(op.Absences)),
			index:      i,
			view:       v,
		}
		for _, s := range op.Absences {
			row.absences[s] = true
		}
		v.rows = append(v.rows, row)
		v.rowByOp[op.ID] = row
	}
	v.setJobs(snap.Jobs)
	for _, s := range snap.Vacations {
		v.vacations[s] = true
	}

	for _, t := range snap.Tasks {
		row := v.rowByOp[t.OperatorID]
		if row == nil {
			continue
		}
		n := &TaskNode{
			ID:      t.ID,
			left:    g.ToPixels(t.StartSlot),
			width:   g.ToPixels(t.Duration),
			opacity: 1,
		}
		n.setMeta(t)
		n.parent = row
		row.children = append(row.children, n)
		v.nodes[t.ID] = n
		v.order = append(v.order, t.ID)
	}
	return v
}

func (v *View) setJobs(jobs []task.Job) {
	for _, j := range jobs {
		v.jobs[j.ID] = j
	}
}

// Geometry returns the slot geometry the view is laid out with.
func (v *View) Geometry() slot.Geometry { return v.geo }

// FrozenWidth returns the width of the leading operator column.
func (v *View) FrozenWidth() int { return v.frozen }

// HeaderHeight returns the number of lines above the first row.
func (v *View) HeaderHeight() int { return v.headerHeight }

// Rows returns the operator rows top to bottom.
func (v *View) Rows() []*Row { return v.rows }

// Row returns the row of an operator, or nil.
func (v *View) Row(operatorID int) *Row { return v.rowByOp[operatorID] }

// Node returns the node of a task, or nil.
func (v *View) Node(id string) *TaskNode { return v.nodes[id] }

// Nodes returns all nodes in build order.
func (v *View) Nodes() []*TaskNode {
	out := make([]*TaskNode, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.nodes[id])
	}
	return out
}

// Job returns a job by id.
func (v *View) Job(id int) (task.Job, bool) {
	j, ok := v.jobs[id]
	return j, ok
}

// IsVacation reports whether slot is a company-wide day off.
func (v *View) IsVacation(slot int) bool { return v.vacations[slot] }

func (v *View) Scrollbar() *Scrollbar { return v.scrollbar }
func (v *View) HeaderOffset() int { return v.headerOffset }
func (v *View) DragActive() bool { return v.dragActive }
func (v *View) PointerCaptured() bool { return v.pointerCaptured }

// SelectionSuppressed reports whether text selection is disabled for a gesture.
func (v *View) SelectionSuppressed() bool { return v.selectionSuppressed }

// Focused returns the node holding input focus, or nil.
func (v *View) Focused() *TaskNode { return v.focused }

// IsDropTarget reports whether a cell is marked as the drop target.
func (v *View) IsDropTarget(c Cell) bool { return v.dropMarks[c] }

// Stats returns the mutation counters.
func (v *View) Stats() Stats { return v.stats }

// ResetStats zeroes the counters and returns their previous values.
func (v *View) ResetStats() Stats {
	s := v.stats
	v.stats = Stats{}
	return s
}

// SetClientWidth sets the visible width of the board, frozen column included.
func (v *View) SetClientWidth(w int) tea.Cmd {
	v.scrollbar.clientWidth = w
	return v.scrollbar.SetScrollLeft(v.scrollbar.left)
}

// SetHeaderHeight sets the number of lines above the first row.
func (v *View) SetHeaderHeight(h int) { v.headerHeight = h }

// VisibleWidth is the scrolled span: client width minus the frozen column.
func (v *View) VisibleWidth() int {
	return v.scrollbar.clientWidth - v.frozen
}

func (v *View) clampScroll(px int) int {
	maxLeft := v.geo.ToPixels(v.geo.TotalSlots) - v.VisibleWidth()
	if px > maxLeft {
		px = maxLeft
	}
	if px < 0 {
		px = 0
	}
	return px
}

func (v *View) dispatchScroll(s Scroller) tea.Cmd {
	if v.onScroll == nil {
		return nil
	}
	return v.onScroll(s)
}

func (v *View) setHeaderOffset(px int) {
	if px == v.headerOffset {
		return
	}
	v.headerOffset = px
	v.stats.HeaderWrites++
}

// setGeometry writes left and width, skipping values already in place.
func (v *View) setGeometry(n *TaskNode, left, width int) {
	if n.left != left {
		n.left = left
		v.stats.GeometryWrites++
	}
	if n.width != width {
		n.width = width
		v.stats.GeometryWrites++
	}
}

// gridGeometry returns the left and width the metadata lays a node out at.
func (v *View) gridGeometry(n *TaskNode) (int, int) {
	return v.geo.ToPixels(n.StartSlot), v.geo.ToPixels(n.Duration)
}

func (v *View) reparent(n *TaskNode, to *Row) {
	if n.parent == to {
		return
	}
	if n.parent != nil {
		n.parent.remove(n)
	}
	to.children = append(to.children, n)
	n.parent = to
	v.stats.Reparents++
}

func (v *View) markDrop(c Cell)   { v.dropMarks[c] = true }
func (v *View) unmarkDrop(c Cell) { delete(v.dropMarks, c) }

func (v *View) clearDropMarks() {
	for c := range v.dropMarks {
		delete(v.dropMarks, c)
	}
}

func (v *View) clearSelection() {
	for _, n := range v.nodes {
		n.selected = false
	}
}

func (v *View) focus(n *TaskNode) {
	if v.focused != nil {
		v.focused.focused = false
	}
	v.focused = n
	if n != nil {
		n.focused = true
	}
}

// CellBounds returns the box of a cell in content coordinates.
func (v *View) CellBounds(c Cell) Rect {
	row := v.rowByOp[c.OperatorID]
	if row == nil {
		return Rect{}
	}
	return Rect{X: v.geo.ToPixels(c.Slot), Y: row.index, W: v.geo.Width(), H: 1}
}

// Content converts a screen point to content coordinates: X along the
// scrolled time axis, Y the row index.
func (v *View) Content(p Point) Point {
	return Point{X: p.X - v.frozen + v.scrollbar.left, Y: p.Y - v.headerHeight}
}

// Screen converts a content point back to screen coordinates.
func (v *View) Screen(p Point) Point {
	return Point{X: p.X + v.frozen - v.scrollbar.left, Y: p.Y + v.headerHeight}
}

// CellAt returns the cell under a screen point.
func (v *View) CellAt(p Point) (Cell, bool) {
	if p.X < v.frozen {
		return Cell{}, false
	}
	c, ok := v.rowContent(p)
	if !ok || c.X < 0 {
		return Cell{}, false
	}
	s := c.X / v.geo.Width()
	if s >= v.geo.TotalSlots {
		return Cell{}, false
	}
	return Cell{OperatorID: v.rows[c.Y].OperatorID, Slot: s}, true
}

// NodeAt returns the task node under a screen point, or nil.
func (v *View) NodeAt(p Point) *TaskNode {
	if p.X < v.frozen {
		return nil
	}
	c, ok := v.rowContent(p)
	if !ok {
		return nil
	}
	for _, n := range v.rows[c.Y].children {
		if c.X >= n.left && c.X < n.End() {
			return n
		}
	}
	return nil
}

// rowContent is Content measured against the offset the row under p is
// drawn at, which lags the master bar while a sync cycle settles.
func (v *View) rowContent(p Point) (Point, bool) {
	c := v.Content(p)
	if c.Y < 0 || c.Y >= len(v.rows) {
		return c, false
	}
	c.X += v.rows[c.Y].scrollLeft - v.scrollbar.left
	return c, true
}

// OnHandle reports whether a screen point is on the right-edge resize handle of n.
func (v *View) OnHandle(n *TaskNode, p Point) bool {
	c, ok := v.rowContent(p)
	return ok && n.parent != nil && c.Y == n.parent.index && c.X == n.End()-1
}
