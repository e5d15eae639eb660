package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how command output is rendered
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output stream
	FormatAuto Format = iota
	// FormatTerminal is styled output for color terminals
	FormatTerminal
	// FormatText is the same layout without styling
	FormatText
	// FormatJSON is indented JSON for scripts
	FormatJSON
	// FormatYAML is YAML for scripts
	FormatYAML
)

// formatNames lists the accepted spellings, canonical one first
var formatNames = []struct {
	format  Format
	spelled []string
}{
	{FormatAuto, []string{"auto", ""}},
	{FormatTerminal, []string{"term", "terminal"}},
	{FormatText, []string{"text", "plain"}},
	{FormatJSON, []string{"json"}},
	{FormatYAML, []string{"yaml", "yml"}},
}

func (f Format) String() string {
	for _, n := range formatNames {
		if n.format == f {
			return n.spelled[0]
		}
	}
	return "unknown"
}

// ParseFormat parses a --format value, case-insensitively
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, n := range formatNames {
		for _, name := range n.spelled {
			if name == s {
				return n.format, nil
			}
		}
	}
	return FormatAuto, fmt.Errorf("unknown format: %s", s)
}

// IsMachine reports whether the format is meant for programs
func (f Format) IsMachine() bool {
	return f == FormatJSON || f == FormatYAML
}

// DetectFormat resolves FormatAuto for output. Pipes, redirects, NO_COLOR
// and colorless terminals get FormatText.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
