package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Installation describes an application's installation: which executables
// it consists of, where they live and for whom they are registered. The same
// record describes an intended installation and an existing one. It holds
// no OS resources.
type Installation struct {
	// Name of the application. Used as the app folder name and as the
	// receipt key. See AppName for the default.
	Name string

	// Executables in install order
	Executables []Executable

	// InstallLocation is the absolute root under which artifacts live
	InstallLocation string

	// Scope of the installation and its registrations
	Scope Scope

	// InAppFolder places artifacts in InstallLocation/<AppName> instead of
	// directly in InstallLocation
	InAppFolder bool
}

// IsGlobalInstall reports whether the installation is machine-wide.
func (i Installation) IsGlobalInstall() bool {
	return i.Scope.IsGlobal()
}

// AppName returns Name, or the shortcut name of the first primary
// executable, or the shortcut name of the first executable.
func (i Installation) AppName() string {
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	for _, exe := range i.Executables {
		if exe.Primary {
			return exe.ShortcutName
		}
	}
	if len(i.Executables) > 0 {
		return i.Executables[0].ShortcutName
	}
	return ""
}

// TargetDir returns the directory the artifacts are placed in.
func (i Installation) TargetDir() string {
	return TargetDir(i.InstallLocation, i.AppName(), i.InAppFolder)
}

// TargetDir resolves the effective target directory of an install.
func TargetDir(installLocation, appFolder string, inAppFolder bool) string {
	if !inAppFolder || appFolder == "" {
		return filepath.Clean(installLocation)
	}
	return filepath.Join(installLocation, appFolder)
}

// ShortcutNames returns the shortcut names in install order.
func (i Installation) ShortcutNames() []string {
	names := make([]string, 0, len(i.Executables))
	for _, exe := range i.Executables {
		names = append(names, exe.ShortcutName)
	}
	return names
}

// Validate checks the record invariants that must hold before Install.
func (i Installation) Validate() error {
	if strings.TrimSpace(i.InstallLocation) == "" {
		return fmt.Errorf("install location is required")
	}
	if !filepath.IsAbs(i.InstallLocation) {
		return fmt.Errorf("install location must be absolute: %s", i.InstallLocation)
	}
	if i.Scope != PerUser && i.Scope != AllUsers {
		return fmt.Errorf("invalid scope: %s", i.Scope)
	}
	if i.InAppFolder {
		name := i.AppName()
		if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
			return fmt.Errorf("app folder name %q is not a single path component", name)
		}
	}
	return ValidateExecutables(i.Executables)
}

// ValidateExecutables checks that executables is non-empty, that every
// entry has a binary path and a shortcut name, and that shortcut names are
// unique, also once turned into entry point file names.
func ValidateExecutables(executables []Executable) error {
	if len(executables) == 0 {
		return fmt.Errorf("at least one executable is required")
	}
	seen := make(map[string]int, len(executables))
	stems := make(map[string]int, len(executables))
	for idx, exe := range executables {
		if strings.TrimSpace(exe.BinaryPath) == "" {
			return fmt.Errorf("executable #%d has no binary path", idx+1)
		}
		if strings.TrimSpace(exe.ShortcutName) == "" {
			return fmt.Errorf("executable %s has no shortcut name", exe.BinaryPath)
		}
		if prev, exists := seen[exe.ShortcutName]; exists {
			return fmt.Errorf("shortcut name conflict: both %s and %s use %q",
				executables[prev].BinaryPath, exe.BinaryPath, exe.ShortcutName)
		}
		seen[exe.ShortcutName] = idx

		// Entry points are files named after the stem, on filesystems that
		// may ignore case
		stem := strings.ToLower(ShortcutStem(exe.ShortcutName))
		if prev, exists := stems[stem]; exists {
			return fmt.Errorf("shortcut name conflict: %q and %q would share the entry point %q",
				executables[prev].ShortcutName, exe.ShortcutName, ShortcutStem(exe.ShortcutName))
		}
		stems[stem] = idx
	}
	return nil
}
