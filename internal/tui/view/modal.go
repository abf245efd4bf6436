package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames and buttons.
type ModalStyles struct {
	ModalTitleStyle        lipgloss.Style
	ModalStyle             lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalHintStyle         lipgloss.Style
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder

	b.WriteString(styles.ModalTitleStyle.Render(title))
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(footer)
	}

	return styles.ModalStyle.Render(b.String())
}

// RenderModalButtons renders a row of modal buttons with the first one active.
func RenderModalButtons(styles ModalStyles, labels ...string) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := styles.ModalButtonStyle
		if i == 0 {
			style = styles.ModalButtonActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	sep := styles.ModalBodyStyle.Render(" ")
	return strings.Join(parts, sep)
}

// ConfirmDeleteModel contains the fields needed to render the delete confirmation.
type ConfirmDeleteModel struct {
	TaskID  string
	Name    string
	JobName string
	Span    string
}

// RenderConfirmDelete renders the whole delete confirmation modal.
func RenderConfirmDelete(model ConfirmDeleteModel, styles ModalStyles) string {
	var body strings.Builder

	name := model.Name
	if name == "" {
		name = model.TaskID
	}
	body.WriteString(styles.ModalBodyStyle.Render(fmt.Sprintf("%q", name)) + "\n")
	if model.JobName != "" {
		body.WriteString(styles.ModalHintStyle.Render(model.JobName) + "\n")
	}
	if model.Span != "" {
		body.WriteString(styles.ModalHintStyle.Render(model.Span) + "\n")
	}
	body.WriteString("\n" + styles.ModalBodyStyle.Render("Remove this task from the board?"))

	footer := RenderModalButtons(styles, "[y/Enter] Delete", "[n/Esc] Cancel")
	return RenderModalFrame("Delete task", body.String(), footer, styles)
}

// TooltipStyles groups the styles of the hover tooltip.
type TooltipStyles struct {
	Box   lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// RenderTooltip renders a bordered tooltip: the title, then one detail per line.
func RenderTooltip(title string, lines []string, styles TooltipStyles) string {
	width := lipgloss.Width(title)
	for _, l := range lines {
		width = max(width, lipgloss.Width(l))
	}

	rows := make([]string, 0, len(lines)+1)
	rows = append(rows, styles.Title.Render(Fit(title, width)))
	for _, l := range lines {
		rows = append(rows, styles.Body.Render(Fit(l, width)))
	}
	return styles.Box.Render(strings.Join(rows, "\n"))
}
