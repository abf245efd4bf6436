package board

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/planboard/internal/slot"
)

func TestTooltip_ShowsAfterHoverDelay(t *testing.T) {
	h := newHarness(t)
	h.b.opts.Measure = func(Tooltip) (int, int) { return 20, 4 }

	h.run(h.b.Tooltip.Enter("T1"))
	h.advance(499 * time.Millisecond)
	if h.b.Tooltip.Current() != nil {
		t.Fatal("tooltip shown before the hover delay")
	}

	h.advance(time.Millisecond)
	tip := h.b.Tooltip.Current()
	if tip == nil {
		t.Fatal("tooltip not shown after the hover delay")
	}
	if tip.Title != "Analyse" {
		t.Errorf("title = %q", tip.Title)
	}
	body := strings.Join(tip.Lines, "\n")
	for _, want := range []string{"Job: Alpha", "From: Wed 13/08 AM", "To: Wed 13/08 PM", "Odoo: https://odoo.example.com/web#id=T1&model=mrp.workorder"} {
		if !strings.Contains(body, want) {
			t.Errorf("tooltip lacks %q:\n%s", want, body)
		}
	}

	// T1 spans screen columns 32..39 on line 3: centered above it.
	if tip.X != 32+4-10 || tip.Y != 0 {
		t.Errorf("position = (%d, %d), want (26, 0)", tip.X, tip.Y)
	}
}

func TestTooltip_LeaveCancels(t *testing.T) {
	h := newHarness(t)

	h.run(h.b.Tooltip.Enter("T1"))
	h.advance(200 * time.Millisecond)
	h.b.Tooltip.Leave()
	h.advance(time.Second)

	if h.b.Tooltip.Current() != nil {
		t.Error("leaving before the delay should cancel the tooltip")
	}

	h.run(h.b.Tooltip.Enter("T1"))
	h.advance(500 * time.Millisecond)
	h.b.Tooltip.Leave()
	if h.b.Tooltip.Current() != nil {
		t.Error("leaving should hide a shown tooltip")
	}
}

func TestTooltip_ClampedToViewport(t *testing.T) {
	h := newHarness(t)
	h.b.opts.Measure = func(Tooltip) (int, int) { return 60, 5 }

	// T3 at slot 58 is off screen to the right once scrolled to the end.
	h.run(h.b.View().Scrollbar().SetScrollLeft(160))
	h.run(h.b.Tooltip.Enter("T3"))
	h.advance(500 * time.Millisecond)

	tip := h.b.Tooltip.Current()
	if tip == nil {
		t.Fatal("tooltip not shown")
	}
	if tip.X+60 > testClientWidth {
		t.Errorf("tooltip overflows: x = %d", tip.X)
	}
	if tip.Y < 0 {
		t.Errorf("y = %d, want >= 0", tip.Y)
	}
}

func TestTooltip_HoverThroughPointer(t *testing.T) {
	h := newHarness(t)

	h.run(h.b.Pointer.Motion(h.screen(1, 4)))
	h.run(h.b.Pointer.Motion(h.screen(1, 5))) // same task, timer not re-armed
	h.advance(500 * time.Millisecond)
	if tip := h.b.Tooltip.Current(); tip == nil || tip.TaskID != "T1" {
		t.Fatalf("tooltip = %+v, want T1", tip)
	}

	h.run(h.b.Pointer.Motion(h.screen(1, 30)))
	if h.b.Tooltip.Current() != nil {
		t.Error("moving off the task should hide the tooltip")
	}
}

func TestMeasureTooltip(t *testing.T) {
	w, hgt := measureTooltip(Tooltip{Title: "abc", Lines: []string{"12345", "1"}})
	if w != 9 || hgt != 5 {
		t.Errorf("size = %dx%d, want 9x5", w, hgt)
	}
}

func TestDeepLinker(t *testing.T) {
	tests := []struct {
		name     string
		template string
		wantURL  string
		wantOK   bool
	}{
		{"entity encoded", "https://odoo.example.com/web#id={}&amp;model=mrp.workorder", "https://odoo.example.com/web#id=42&model=mrp.workorder", true},
		{"plain", "https://odoo.example.com/odoo/action-7/{}", "https://odoo.example.com/odoo/action-7/42", true},
		{"empty", "", "", false},
		{"blank", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opened []string
			d := NewDeepLinker(tt.template, func(url string) error {
				opened = append(opened, url)
				return nil
			})

			url, ok := d.URL("42")
			if url != tt.wantURL || ok != tt.wantOK {
				t.Errorf("URL = %q, %v; want %q, %v", url, ok, tt.wantURL, tt.wantOK)
			}
			if err := d.Open("42"); err != nil {
				t.Fatal(err)
			}
			if tt.wantOK && (len(opened) != 1 || opened[0] != tt.wantURL) {
				t.Errorf("opened = %v", opened)
			}
			if !tt.wantOK && len(opened) != 0 {
				t.Errorf("disabled linker opened %v", opened)
			}
		})
	}
}

func TestDeepLinker_OpenerError(t *testing.T) {
	d := NewDeepLinker("https://x/{}", func(string) error { return errors.New("no browser") })
	if err := d.Open("1"); err == nil {
		t.Error("expected the opener's error")
	}
}

func TestDoubleClickOpensLink(t *testing.T) {
	h := newHarness(t)
	p := h.b.Pointer
	at := h.screen(1, 4)

	h.run(p.Down(at))
	h.run(p.Up(at))
	h.clock.now = h.clock.now.Add(300 * time.Millisecond)
	h.run(p.Down(at))
	h.run(p.Up(at))

	want := "https://odoo.example.com/web#id=T1&model=mrp.workorder"
	if len(h.opened) != 1 || h.opened[0] != want {
		t.Fatalf("opened = %v, want [%s]", h.opened, want)
	}

	// Two presses too far apart are two single clicks.
	h.clock.now = h.clock.now.Add(time.Second)
	h.run(p.Down(at))
	h.clock.now = h.clock.now.Add(500 * time.Millisecond)
	h.run(p.Down(at))
	if len(h.opened) != 1 {
		t.Errorf("opened = %v, want a single open", h.opened)
	}
}

func TestClickOnEmptySpaceClearsSelection(t *testing.T) {
	h := newHarness(t)
	h.run(h.b.Pointer.Down(h.screen(1, 4)))
	if h.b.Selection.Current() != h.node("T1") {
		t.Fatal("press on a task should select it")
	}

	h.run(h.b.Pointer.Down(h.screen(1, 30)))
	if h.b.Selection.Current() != nil || h.node("T1").IsSelected() || h.b.View().Focused() != nil {
		t.Error("press on empty space should clear selection and focus")
	}
}

func TestCalendarLabelsUsedByTooltip(t *testing.T) {
	g := slot.New(testSlotWidth, 60, testAnchor)
	first, last := g.Span(4, 2)
	if first.Label() != "13/08 AM" || last.Label() != "13/08 PM" {
		t.Errorf("span = %s .. %s", first.Label(), last.Label())
	}
}
