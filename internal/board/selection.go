package board

// Selection tracks the single selected task and input focus.
type Selection struct {
	b *Board
}

// Current returns the selected node, or nil.
func (s *Selection) Current() *TaskNode {
	return s.b.session.selected
}

// Select makes n the only selected node and focuses it.
func (s *Selection) Select(n *TaskNode) {
	if n == nil {
		return
	}
	s.b.view.clearSelection()
	n.selected = true
	s.b.session.selected = n
	s.b.view.focus(n)
}

// SelectID selects a task by id.
func (s *Selection) SelectID(id string) error {
	n := s.b.view.Node(id)
	if n == nil {
		return ErrUnknownTask
	}
	s.Select(n)
	return nil
}

// Clear drops the selection and the focus.
func (s *Selection) Clear() {
	s.b.view.clearSelection()
	s.b.session.selected = nil
	s.b.view.focus(nil)
}

// ensure reselects the focused node when the session tracks another one.
func (s *Selection) ensure() *TaskNode {
	n := s.b.view.focused
	if n == nil {
		return nil
	}
	if s.b.session.selected != n {
		s.Select(n)
	}
	return n
}
