package board

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ScrollSync keeps the master scrollbar, every row and the header offset at
// the same horizontal position.
//
// Writing a position to a container fires that container's scroll event, so
// a sync cycle would feed itself. The syncing flag drops those echoes until
// the settle timer releases it.
type ScrollSync struct {
	b *Board

	syncing bool
	seq     int
	last    int
}

// Syncing reports whether a sync cycle is in flight.
func (s *ScrollSync) Syncing() bool { return s.syncing }

// OnScroll handles a scroll event from the master bar or a row.
func (s *ScrollSync) OnScroll(src Scroller) tea.Cmd {
	v := s.b.view
	if s.syncing {
		v.stats.ScrollEventsDropped++
		return nil
	}
	left := src.ScrollLeft()
	if abs(left-s.last) < 1 {
		return nil
	}

	s.syncing = true
	s.seq++
	s.last = left

	if src != Scroller(v.scrollbar) {
		v.scrollbar.SetScrollLeft(left)
	}
	for _, r := range v.rows {
		if src == Scroller(r) {
			continue
		}
		r.SetScrollLeft(left)
	}
	v.setHeaderOffset(left)

	s.b.trace("SCROLL_SYNC", map[string]any{"left": left})
	return s.b.after(s.b.opts.SettleDelay, scrollSettledMsg{seq: s.seq})
}

// ScrollBy moves the master bar by dx pixels. Inside a sync cycle the rows
// follow when the cycle settles.
func (s *ScrollSync) ScrollBy(dx int) tea.Cmd {
	sb := s.b.view.scrollbar
	return sb.SetScrollLeft(sb.left + dx)
}

// settle releases the guard. Scrolls that landed while it was held were
// dropped, so the containers are brought back in line: a moved master bar
// starts a new cycle, otherwise rows and header return to the synced offset.
func (s *ScrollSync) settle(msg scrollSettledMsg) tea.Cmd {
	if msg.seq != s.seq {
		return nil
	}
	s.syncing = false

	v := s.b.view
	if v.scrollbar.left != s.last {
		s.b.trace("SCROLL_CATCH_UP", map[string]any{"from": s.last, "to": v.scrollbar.left})
		return s.OnScroll(v.scrollbar)
	}
	var cmds []tea.Cmd
	for _, r := range v.rows {
		if r.scrollLeft != s.last {
			cmds = append(cmds, r.SetScrollLeft(s.last))
		}
	}
	v.setHeaderOffset(s.last)
	return tea.Batch(cmds...)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
