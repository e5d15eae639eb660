package types

import (
	"path/filepath"
	"strings"
)

// Executable identifies one installable artifact of an application.
type Executable struct {
	// BinaryPath locates the artifact at its source. Relative paths are
	// resolved against the source root passed to Install.
	BinaryPath string `toml:"binary" json:"binary" yaml:"binary" koanf:"binary"`

	// ShortcutName is the human-facing label of the entry point. It is also
	// the key used to find the shortcut again on uninstall, so it must be
	// unique within an Installation.
	ShortcutName string `toml:"shortcut" json:"shortcut" yaml:"shortcut" koanf:"shortcut"`

	// Primary marks the main entry point. Only primary executables are
	// eligible for a desktop shortcut.
	Primary bool `toml:"primary" json:"primary" yaml:"primary" koanf:"primary"`
}

// SourcePath returns where the artifact lives before installation.
func (e Executable) SourcePath(sourceRoot string) string {
	if filepath.IsAbs(e.BinaryPath) {
		return filepath.Clean(e.BinaryPath)
	}
	return filepath.Join(sourceRoot, e.BinaryPath)
}

// InstalledName returns the artifact path relative to the install target.
// Relative binary paths keep their layout, absolute ones keep their base name.
func (e Executable) InstalledName() string {
	if filepath.IsAbs(e.BinaryPath) {
		return filepath.Base(e.BinaryPath)
	}
	clean := filepath.Clean(e.BinaryPath)
	// Never let a relative path climb out of the target directory.
	for strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		clean = strings.TrimPrefix(clean, ".."+string(filepath.Separator))
	}
	if clean == ".." {
		return filepath.Base(e.BinaryPath)
	}
	return clean
}

// InstalledPath returns the absolute path of the artifact under targetDir.
func (e Executable) InstalledPath(targetDir string) string {
	return filepath.Join(targetDir, e.InstalledName())
}
