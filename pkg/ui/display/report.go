// Package display lays out command results for people.
//
// Commands describe their outcome as a Report. The terminal renderer paints
// it with styles, the text renderer writes it as is. Machine formats encode
// the command's own result instead.
package display

import (
	"fmt"
	"io"
	"strings"
)

// Viewer is implemented by results that have a human layout
type Viewer interface {
	View() Report
}

// Report is the human view of a command result
type Report struct {
	Title    string
	Message  string
	Fields   []Field
	Items    []Item
	Warnings []string
}

// Field is one labelled value
type Field struct {
	Label string
	Value string
	// Path values are styled as paths
	Path bool
}

// Item is one row of a list, usually a shortcut or an application
type Item struct {
	Name   string
	Detail string
	Status string
}

// Painter styles text with a named style
type Painter func(style, text string) string

// Plain leaves text unstyled
func Plain(_ string, text string) string {
	return text
}

// StatusStyle maps an item status to a style name
func StatusStyle(status string) string {
	switch status {
	case "installed", "registered", "removed", "archived", "ok":
		return "Success"
	case "degraded", "failed":
		return "Error"
	case "missing", "not-installed", "skipped":
		return "Warning"
	default:
		return "Muted"
	}
}

// StatusSymbol returns the marker drawn before an item
func StatusSymbol(status string) string {
	switch StatusStyle(status) {
	case "Success":
		return "✓"
	case "Error":
		return "✗"
	case "Warning":
		return "!"
	default:
		return "-"
	}
}

// Write lays r out on w
func Write(w io.Writer, r Report, paint Painter) error {
	var b strings.Builder

	if r.Title != "" {
		b.WriteString(paint("Header", r.Title))
		b.WriteString("\n")
	}
	if r.Message != "" {
		b.WriteString(r.Message)
		b.WriteString("\n")
	}

	width := 0
	for _, f := range r.Fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	for _, f := range r.Fields {
		label := fmt.Sprintf("%-*s", width+1, f.Label+":")
		style := "Value"
		if f.Path {
			style = "Path"
		}
		fmt.Fprintf(&b, "  %s %s\n", paint("Label", label), paint(style, f.Value))
	}

	if len(r.Items) > 0 {
		if len(r.Fields) > 0 {
			b.WriteString("\n")
		}
		nameWidth := 0
		for _, item := range r.Items {
			if len(item.Name) > nameWidth {
				nameWidth = len(item.Name)
			}
		}
		for _, item := range r.Items {
			statusStyle := StatusStyle(item.Status)
			line := fmt.Sprintf("  %s %s", paint(statusStyle, StatusSymbol(item.Status)),
				paint("Item", fmt.Sprintf("%-*s", nameWidth, item.Name)))
			if item.Status != "" {
				line += "  " + paint(statusStyle, item.Status)
			}
			if item.Detail != "" {
				line += "  " + paint("Muted", item.Detail)
			}
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteString("\n")
		}
	}

	for _, warning := range r.Warnings {
		fmt.Fprintf(&b, "%s %s\n", paint("Warning", "warning:"), warning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
