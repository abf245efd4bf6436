package view

import (
	"testing"

	"github.com/javiermolinar/planboard/internal/slot"
)

func shades(m map[int]Shade) func(int) Shade {
	return func(s int) Shade { return m[s] }
}

func TestRowSegments(t *testing.T) {
	g := slot.New(4, 60, testAnchor)
	shade := shades(map[int]Shade{2: ShadeAbsence, 3: ShadeVacation})
	blocks := []Block{{Left: 4, Width: 8, Label: "Analyse", Grip: true}}

	tests := []struct {
		name   string
		window Window
		want   []Segment
	}{
		{
			name:   "unscrolled",
			window: Window{Geometry: g, Offset: 0, Width: 20},
			want: []Segment{
				{Shade: ShadeOpen, Block: -1, Text: "┊   "},
				{Shade: ShadeOpen, Block: 0, Text: "Analyse▕"},
				{Shade: ShadeVacation, Block: -1, Text: "    "},
				{Shade: ShadeOpen, Block: -1, Text: "┊   "},
			},
		},
		{
			name:   "scrolled into the block",
			window: Window{Geometry: g, Offset: 6, Width: 8},
			want: []Segment{
				{Shade: ShadeOpen, Block: 0, Text: "alyse▕"},
				{Shade: ShadeVacation, Block: -1, Text: "  "},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RowSegments(tt.window, shade, blocks)
			if len(got) != len(tt.want) {
				t.Fatalf("segments = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRowSegments_AdjacentBlocksStaySeparate(t *testing.T) {
	g := slot.New(4, 60, testAnchor)
	blocks := []Block{
		{Left: 0, Width: 4, Label: "Assemblage"},
		{Left: 4, Width: 4, Label: "QC"},
	}

	got := RowSegments(Window{Geometry: g, Width: 8}, shades(nil), blocks)
	if len(got) != 2 {
		t.Fatalf("segments = %+v, want 2", got)
	}
	if got[0].Text != "Ass…" || got[0].Block != 0 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Text != "QC  " || got[1].Block != 1 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestRowSegments_PastAxisEnd(t *testing.T) {
	g := slot.New(4, 2, testAnchor)

	got := RowSegments(Window{Geometry: g, Width: 12}, shades(nil), nil)
	last := got[len(got)-1]
	if last.Shade != ShadeOutside || last.Text != "    " {
		t.Errorf("last segment = %+v, want 4 blank outside cells", last)
	}
}

func TestRowSegments_DropShadeBreaksRun(t *testing.T) {
	g := slot.New(4, 60, testAnchor)

	got := RowSegments(Window{Geometry: g, Offset: 4, Width: 12}, shades(map[int]Shade{2: ShadeDrop}), nil)
	if len(got) != 3 || got[1].Shade != ShadeDrop || got[1].Text != "┊   " {
		t.Errorf("segments = %+v", got)
	}
}
