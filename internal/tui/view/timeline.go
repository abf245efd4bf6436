package view

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Shade is the background state of a slot on one operator row.
type Shade int

const (
	ShadeOpen Shade = iota
	ShadeAbsence
	ShadeVacation
	ShadeDrop
	ShadeOutside // Past the end of the axis
)

// Block is a task laid out on a row, in content pixels.
type Block struct {
	Left  int
	Width int
	Label string
	Grip  bool // Draw the resize grip in the last cell
}

// Segment is a run of cells with a single look. Block is -1 for background.
type Segment struct {
	Shade Shade
	Block int
	Text  string
}

const (
	dayMark  = "┊"
	gripMark = "▕"
)

type cellRef struct {
	shade Shade
	block int
}

// RowSegments lays out one operator row across the window. Tasks cover the
// slot shading; background cells carry a faint mark where a new day starts.
func RowSegments(w Window, shade func(slot int) Shade, blocks []Block) []Segment {
	if w.Width <= 0 || w.Geometry.SlotWidth <= 0 {
		return nil
	}
	g := w.Geometry
	axis := g.ToPixels(g.TotalSlots)

	cells := make([]cellRef, w.Width)
	for x := range cells {
		cx := w.Offset + x
		ref := cellRef{shade: ShadeOutside, block: -1}
		if cx >= 0 && cx < axis {
			ref.shade = shade(cx / g.SlotWidth)
		}
		cells[x] = ref
	}
	for i, b := range blocks {
		from := max(b.Left, w.Offset)
		to := min(b.Left+b.Width, w.Offset+w.Width)
		for cx := from; cx < to; cx++ {
			cells[cx-w.Offset].block = i
		}
	}

	var out []Segment
	for start := 0; start < len(cells); {
		end := start + 1
		for end < len(cells) && sameLook(cells[start], cells[end]) {
			end++
		}
		ref := cells[start]
		seg := Segment{Shade: ref.shade, Block: ref.block}
		if ref.block >= 0 {
			seg.Text = blockText(blocks[ref.block], w.Offset+start, end-start)
		} else {
			seg.Text = backgroundText(g.ToPixels(2), w.Offset+start, end-start, ref.shade)
		}
		out = append(out, seg)
		start = end
	}
	return out
}

func sameLook(a, b cellRef) bool {
	if a.block >= 0 || b.block >= 0 {
		return a.block == b.block
	}
	return a.shade == b.shade
}

// blockText returns the part of a block's label visible from content
// column from over n cells.
func blockText(b Block, from, n int) string {
	padded := Fit(b.Label, b.Width)
	off := from - b.Left
	text := Fit(ansi.Cut(padded, off, off+n), n)
	if b.Grip && b.Width > 1 && from+n == b.Left+b.Width {
		text = Fit(ansi.Cut(text, 0, n-1), n-1) + gripMark
	}
	return text
}

func backgroundText(dayWidth, from, n int, shade Shade) string {
	if shade == ShadeOutside || dayWidth <= 0 {
		return strings.Repeat(" ", n)
	}
	var sb strings.Builder
	for cx := from; cx < from+n; cx++ {
		if cx%dayWidth == 0 {
			sb.WriteString(dayMark)
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
