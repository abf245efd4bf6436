package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestRenderModalButtons_UsesModalBodySeparator(t *testing.T) {
	styles := ModalStyles{
		ModalBodyStyle:         lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		ModalButtonStyle:       lipgloss.NewStyle(),
		ModalButtonActiveStyle: lipgloss.NewStyle(),
	}

	view := RenderModalButtons(styles, "[y] Delete", "[n] Cancel")
	sep := styles.ModalBodyStyle.Render(" ")
	if !strings.Contains(view, sep) {
		t.Fatalf("expected modal button separator to use modal body style")
	}
}

func TestRenderConfirmDelete(t *testing.T) {
	tests := []struct {
		name  string
		model ConfirmDeleteModel
		want  []string
	}{
		{
			name:  "full task",
			model: ConfirmDeleteModel{TaskID: "T1", Name: "Analyse", JobName: "Alpha", Span: "Wed 13/08 AM - Wed 13/08 PM"},
			want:  []string{"Delete task", `"Analyse"`, "Alpha", "Wed 13/08 AM", "[y/Enter] Delete"},
		},
		{
			name:  "falls back to the id",
			model: ConfirmDeleteModel{TaskID: "T9"},
			want:  []string{`"T9"`, "Remove this task"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(RenderConfirmDelete(tt.model, ModalStyles{}))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("modal lacks %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestRenderTooltip_SizeMatchesBorderAndPadding(t *testing.T) {
	styles := TooltipStyles{
		Box: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
	got := RenderTooltip("abc", []string{"12345", "1"}, styles)

	// Content 5 wide plus padding and border; title and two lines plus border.
	if w, h := lipgloss.Width(got), lipgloss.Height(got); w != 9 || h != 5 {
		t.Errorf("tooltip = %dx%d, want 9x5:\n%s", w, h, got)
	}
	if !strings.Contains(ansi.Strip(got), "12345") {
		t.Error("tooltip lacks its lines")
	}
}
