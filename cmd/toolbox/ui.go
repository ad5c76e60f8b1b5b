package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	heading  = color.New(color.FgCyan, color.Bold)
	success  = color.New(color.FgGreen)
	failure  = color.New(color.FgRed)
	muted    = color.New(color.FgHiBlack)
	pending  = color.New(color.FgYellow)
	category = map[string]*color.Color{
		"PDF":        color.New(color.FgRed, color.Bold),
		"Image":      color.New(color.FgMagenta, color.Bold),
		"Developer":  color.New(color.FgBlue, color.Bold),
		"Text":       color.New(color.FgGreen, color.Bold),
		"Security":   color.New(color.FgYellow, color.Bold),
		"Calculator": color.New(color.FgCyan, color.Bold),
	}
)

func categoryColor(name string) *color.Color {
	if c, ok := category[name]; ok {
		return c
	}
	return heading
}

func printSuccess(w io.Writer, format string, args ...any) {
	success.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

func printFailure(w io.Writer, format string, args ...any) {
	failure.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}
