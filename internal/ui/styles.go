package ui

import "fmt"

// ANSI256 color codes.
const (
	colorVacant   = 71  // green
	colorOccupied = 167 // red
	colorAccent   = 74  // blue
	colorMuted    = 245 // medium gray
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderStatus colors a potty status: green when vacant, red when occupied.
// Unknown values are returned unchanged.
func RenderStatus(status string) string {
	switch status {
	case "VACANT":
		return paint(colorVacant, status)
	case "OCCUPIED":
		return paint(colorOccupied, status)
	}
	return status
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return paint(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return paint(colorMuted, s)
}

// SetColor enables or disables color output globally.
func SetColor(enabled bool) {
	noColor = !enabled
}
