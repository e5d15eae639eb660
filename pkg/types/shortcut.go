package types

import (
	"strings"
	"unicode"
)

// Shortcut is everything a registrar needs to create an OS entry point.
type Shortcut struct {
	// Name is the unique label of the entry point
	Name string
	// Target is the absolute path of the installed artifact
	Target string
	// WorkingDir is the directory the entry point starts in
	WorkingDir string
	// Primary entry points also get a desktop shortcut where supported
	Primary bool
	// Comment is an optional description shown by the OS
	Comment string
}

// ShortcutStem turns a shortcut name into the file name stem registrars
// store its entry points under. Letters, digits, dots, dashes and
// underscores are kept, everything else becomes a dash. Distinct names can
// share a stem ("My App" and "My-App").
func ShortcutStem(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	stem := strings.Trim(b.String(), ".")
	if stem == "" {
		return "shortcut"
	}
	return stem
}
