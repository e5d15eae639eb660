package install

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/prebuilt/pkg/types"
)

// ShortcutPolicy decides which executables get a shortcut
type ShortcutPolicy int

const (
	// AllExecutables registers a shortcut for every executable. Primary
	// ones additionally get a desktop shortcut where the registrar
	// supports it.
	AllExecutables ShortcutPolicy = iota
	// PrimaryOnly registers shortcuts for primary executables only
	PrimaryOnly
)

func (p ShortcutPolicy) String() string {
	switch p {
	case AllExecutables:
		return "all"
	case PrimaryOnly:
		return "primary"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Wants reports whether exe gets a shortcut under the policy
func (p ShortcutPolicy) Wants(exe types.Executable) bool {
	return p == AllExecutables || exe.Primary
}

// ParseShortcutPolicy parses "all" or "primary". The empty string means
// AllExecutables.
func ParseShortcutPolicy(s string) (ShortcutPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return AllExecutables, nil
	case "primary", "primary-only":
		return PrimaryOnly, nil
	default:
		return AllExecutables, fmt.Errorf("unknown shortcut policy: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (p ShortcutPolicy) MarshalText() ([]byte, error) {
	switch p {
	case AllExecutables, PrimaryOnly:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("invalid shortcut policy: %d", int(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *ShortcutPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseShortcutPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
