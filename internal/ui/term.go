package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Operators: bold cyan, one per row
	colorOperator = color.New(color.FgCyan, color.Bold)

	// Task ids: yellow so they are easy to copy
	colorID = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Success: green
	colorOK = color.New(color.FgGreen)

	// Failures and blocked moves
	colorError = color.New(color.FgRed, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatOperator(s string) string {
	return colorOperator.Sprint(s)
}

func formatID(s string) string {
	return colorID.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatOK(s string) string {
	return colorOK.Sprint(s)
}

func formatError(s string) string {
	return colorError.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
