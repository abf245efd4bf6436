package board

import (
	"fmt"
	"html"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Placeholder is the token of the URL template replaced by the task id.
const Placeholder = "{}"

// Opener opens a URL outside the terminal.
type Opener func(url string) error

// DefaultOpener hands the URL to the desktop's browser launcher.
func DefaultOpener(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// DeepLinker builds and opens the Odoo record URL of a task.
type DeepLinker struct {
	template string
	open     Opener

	lastID   string
	lastTime time.Time
}

// NewDeepLinker creates a linker. An empty template disables it.
func NewDeepLinker(template string, open Opener) *DeepLinker {
	return &DeepLinker{
		template: html.UnescapeString(strings.TrimSpace(template)),
		open:     open,
	}
}

// Enabled reports whether a template is configured.
func (d *DeepLinker) Enabled() bool {
	return d.template != ""
}

// URL returns the record URL of task id.
func (d *DeepLinker) URL(id string) (string, bool) {
	if !d.Enabled() {
		return "", false
	}
	return strings.ReplaceAll(d.template, Placeholder, id), true
}

// Open opens the record of task id. It does nothing without a template.
func (d *DeepLinker) Open(id string) error {
	url, ok := d.URL(id)
	if !ok || d.open == nil {
		return nil
	}
	return d.open(url)
}

// click records a press on task id at now and reports whether it completes
// a double click within window.
func (d *DeepLinker) click(id string, now time.Time, window time.Duration) bool {
	double := id == d.lastID && now.Sub(d.lastTime) <= window
	if double {
		d.lastID = ""
		d.lastTime = time.Time{}
		return true
	}
	d.lastID = id
	d.lastTime = now
	return false
}
