package types

import (
	"fmt"
	"strings"
)

// Scope decides whether an installation and its registrations apply to the
// current user only or to every user of the machine.
type Scope int

const (
	// PerUser installs and registers for the current user only.
	PerUser Scope = iota
	// AllUsers installs machine-wide and registers in the all-users area.
	// It usually requires elevated rights.
	AllUsers
)

// String returns the canonical spelling of the scope
func (s Scope) String() string {
	switch s {
	case PerUser:
		return "user"
	case AllUsers:
		return "all-users"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// IsGlobal reports whether the scope is machine-wide.
func (s Scope) IsGlobal() bool {
	return s == AllUsers
}

// ScopeFromGlobal maps the legacy "global install" flag onto a Scope.
func ScopeFromGlobal(global bool) Scope {
	if global {
		return AllUsers
	}
	return PerUser
}

// ParseScope parses a scope name. The empty string means PerUser.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user", "per-user", "current-user":
		return PerUser, nil
	case "all", "all-users", "global", "machine":
		return AllUsers, nil
	default:
		return PerUser, fmt.Errorf("unknown scope: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Scope) MarshalText() ([]byte, error) {
	switch s {
	case PerUser, AllUsers:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid scope: %d", int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
