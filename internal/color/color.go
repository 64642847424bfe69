// Package color provides minimal ANSI styling for command output.
package color

import (
	"os"

	"golang.org/x/term"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

// Color styles strings when enabled and passes them through untouched when
// not (piped output, NO_COLOR, dumb terminals).
type Color struct {
	enabled bool
}

// New creates a colorizer. Passing enabled=false forces plain output
// regardless of the environment.
func New(enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor()}
}

func shouldEnableColor() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if t := os.Getenv("TERM"); t == "dumb" || t == "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func (c *Color) wrap(code, text string) string {
	if !c.enabled {
		return text
	}
	return code + text + reset
}

// Green styles success output.
func (c *Color) Green(text string) string { return c.wrap(green, text) }

// Yellow styles warnings.
func (c *Color) Yellow(text string) string { return c.wrap(yellow, text) }

// Red styles errors.
func (c *Color) Red(text string) string { return c.wrap(red, text) }

// Cyan styles headers and labels.
func (c *Color) Cyan(text string) string { return c.wrap(cyan, text) }

// Bold emphasizes text.
func (c *Color) Bold(text string) string { return c.wrap(bold, text) }
