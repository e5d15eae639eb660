package shortcuts

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/aymerick/raymond"
)

// DesktopEntryExt is the extension of freedesktop menu entries
const DesktopEntryExt = ".desktop"

//go:embed templates/desktop_entry.hbs
var desktopEntrySource string

var desktopEntryTemplate = raymond.MustParse(desktopEntrySource)

// Freedesktop registers entry points as .desktop files.
type Freedesktop struct {
	fs        types.FS
	locations Locations
}

// NewFreedesktop returns a registrar writing through fsys into the
// directories locations reports.
func NewFreedesktop(fsys types.FS, locations Locations) *Freedesktop {
	return &Freedesktop{fs: fsys, locations: locations}
}

// EntryPath returns the menu entry path for name in scope
func (f *Freedesktop) EntryPath(name string, scope types.Scope) string {
	return filepath.Join(f.locations.MenuDir(scope), FileStem(name)+DesktopEntryExt)
}

// desktopPath returns the desktop copy path, or "" when scope has no desktop
func (f *Freedesktop) desktopPath(name string, scope types.Scope) string {
	dir := f.locations.DesktopDir(scope)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, FileStem(name)+DesktopEntryExt)
}

func (f *Freedesktop) Register(sc types.Shortcut, scope types.Scope) error {
	logger := logging.GetLogger("shortcuts.freedesktop")

	content, err := RenderDesktopEntry(sc, scope)
	if err != nil {
		return errors.Wrapf(err, errors.ErrShortcutRegistration, "failed to render entry for %s", sc.Name)
	}

	entry := f.EntryPath(sc.Name, scope)
	if err := f.fs.MkdirAll(filepath.Dir(entry), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrShortcutRegistration, "failed to create menu directory for %s", sc.Name).
			WithDetail(errors.DetailPath, filepath.Dir(entry))
	}
	if err := f.fs.WriteFile(entry, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrShortcutRegistration, "failed to write menu entry for %s", sc.Name).
			WithDetail(errors.DetailPath, entry)
	}
	logger.Debug().Str("name", sc.Name).Str("path", entry).Str("scope", scope.String()).Msg("Menu entry written")

	if !sc.Primary {
		return nil
	}
	desktop := f.desktopPath(sc.Name, scope)
	if desktop == "" {
		return nil
	}
	if _, err := f.fs.Stat(filepath.Dir(desktop)); err != nil {
		// No desktop directory means no desktop to put the shortcut on
		logger.Debug().Str("dir", filepath.Dir(desktop)).Msg("Desktop directory missing, skipping desktop shortcut")
		return nil
	}
	// Desktop launchers must be executable to be trusted by file managers
	if err := f.fs.WriteFile(desktop, []byte(content), 0755); err != nil {
		// Leave nothing half registered
		_ = f.fs.Remove(entry)
		return errors.Wrapf(err, errors.ErrShortcutRegistration, "failed to write desktop shortcut for %s", sc.Name).
			WithDetail(errors.DetailPath, desktop)
	}
	logger.Debug().Str("name", sc.Name).Str("path", desktop).Msg("Desktop shortcut written")
	return nil
}

func (f *Freedesktop) Unregister(name string, scope types.Scope) error {
	logger := logging.GetLogger("shortcuts.freedesktop")

	removed := 0
	for _, path := range []string{f.EntryPath(name, scope), f.desktopPath(name, scope)} {
		if path == "" {
			continue
		}
		if err := f.fs.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, errors.ErrShortcutRemoval, "failed to remove %s", path).
				WithDetail(errors.DetailPath, path)
		}
		logger.Debug().Str("name", name).Str("path", path).Msg("Removed entry")
		removed++
	}
	if removed == 0 {
		return NotFound(name, scope)
	}
	f.pruneMenuDir(scope)
	return nil
}

// pruneMenuDir removes the menu directory once its last entry is gone, since
// Register creates it on demand.
func (f *Freedesktop) pruneMenuDir(scope types.Scope) {
	logger := logging.GetLogger("shortcuts.freedesktop")
	dir := f.locations.MenuDir(scope)
	entries, err := f.fs.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := f.fs.Remove(dir); err != nil {
		logger.Debug().Err(err).Str("dir", dir).Msg("Cannot remove empty menu directory")
		return
	}
	logger.Debug().Str("dir", dir).Msg("Removed empty menu directory")
}

// RenderDesktopEntry renders the .desktop file content for sc.
func RenderDesktopEntry(sc types.Shortcut, scope types.Scope) (string, error) {
	workingDir := sc.WorkingDir
	if workingDir == "" {
		workingDir = filepath.Dir(sc.Target)
	}
	return desktopEntryTemplate.Exec(map[string]interface{}{
		"name":       escapeValue(sc.Name),
		"comment":    escapeValue(sc.Comment),
		"exec":       quoteExec(sc.Target),
		"target":     escapeValue(sc.Target),
		"workingDir": escapeValue(workingDir),
		"scope":      scope.String(),
	})
}

// escapeValue applies the string escapes of the desktop entry format
func escapeValue(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return r.Replace(s)
}

// quoteExec quotes a program path for the Exec key. Inside quotes, the
// characters ", `, $ and \ must be backslash escaped, and the result is
// escaped once more as a string value.
func quoteExec(path string) string {
	if !strings.ContainsAny(path, " \t\n\"'\\><~|&;$*?#()`") {
		return escapeValue(path)
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return escapeValue(`"` + r.Replace(path) + `"`)
}
