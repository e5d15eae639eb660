package prebuilt

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/prebuilt/pkg/datastore"
	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/filesystem"
	"github.com/arthur-debert/prebuilt/pkg/install"
	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/paths"
	"github.com/arthur-debert/prebuilt/pkg/shortcuts"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/arthur-debert/prebuilt/pkg/uninstall"
	"github.com/rs/zerolog"
)

// App is one prebuilt application and its installation
type App struct {
	record    types.Installation
	fs        types.FS
	registrar shortcuts.Registrar
	receipts  datastore.ReceiptStore
	policy    install.ShortcutPolicy
	comment   string
	logger    zerolog.Logger
	state     types.State

	// createdDirs are the directories the install created, known after
	// Install or from a receipt
	createdDirs []string
}

// New returns an App for executables installed under installLocation.
// Without options the install is per-user, flat and uses the OS filesystem
// and the platform registrar.
func New(executables []types.Executable, installLocation string, opts ...Option) (*App, error) {
	record := types.Installation{
		Executables:     append([]types.Executable(nil), executables...),
		InstallLocation: installLocation,
		Scope:           types.PerUser,
	}
	a := &App{
		record: record,
		logger: logging.GetLogger("prebuilt"),
		state:  types.StateNotInstalled,
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.record.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid installation")
	}

	if a.fs == nil {
		a.fs = filesystem.NewOS()
	}
	if a.registrar == nil {
		p, err := paths.New()
		if err != nil {
			return nil, err
		}
		a.registrar = shortcuts.NewDefault(a.fs, p)
	}
	a.logger = a.logger.With().Str("app", a.record.AppName()).Logger()
	return a, nil
}

// FromReceipt returns an App for an installation recorded in r. Options
// are applied after the recorded ones.
func FromReceipt(r *datastore.Receipt, opts ...Option) (*App, error) {
	if r == nil {
		return nil, errors.New(errors.ErrInvalidInput, "receipt is required")
	}
	recorded := []Option{
		WithName(r.Name),
		WithScope(r.Scope),
		WithAppFolder(r.InAppFolder),
	}
	a, err := New(r.Executables, r.InstallLocation, append(recorded, opts...)...)
	if err != nil {
		return nil, err
	}
	if r.State != "" {
		a.state = r.State
	}
	a.createdDirs = append([]string(nil), r.CreatedDirs...)
	return a, nil
}

// Installation returns a copy of the installation record
func (a *App) Installation() types.Installation {
	record := a.record
	record.Executables = append([]types.Executable(nil), a.record.Executables...)
	return record
}

// Name returns the application name
func (a *App) Name() string {
	return a.record.AppName()
}

// State returns the lifecycle state after the last operation
func (a *App) State() types.State {
	return a.state
}

// Install copies the executables from programLocation and registers their
// shortcuts. A nil result means nothing was installed. A non-nil result
// with an ErrShortcutRegistration error means the files are in place but
// some shortcuts are missing.
func (a *App) Install(programLocation string) (*install.Result, error) {
	installer := install.New(a.fs, a.registrar)
	result, err := installer.Install(
		a.record.Executables,
		programLocation,
		a.record.InstallLocation,
		a.record.InAppFolder,
		a.record.Scope,
		install.Options{
			AppFolder: a.record.AppName(),
			Shortcuts: a.policy,
			Comment:   a.comment,
		},
	)
	if result == nil {
		return nil, err
	}

	a.state = types.StateInstalled
	a.createdDirs = append([]string(nil), result.CreatedDirs...)
	a.saveReceipt(result)
	return result, err
}

// Uninstall removes every shortcut and then deletes the installed files.
// With the app folder layout that is the app's own folder under the install
// location, not the install location itself. The install location is then
// removed only if it is left empty.
func (a *App) Uninstall() (*uninstall.Result, error) {
	u := uninstall.New(a.fs, a.registrar)
	result, err := u.UninstallApp(a.record.ShortcutNames(), a.record.TargetDir(), a.record.Scope)
	a.finish(result, err)
	return result, err
}

// UninstallTo removes every shortcut and then moves the installed files to
// saveLocation, which must not exist yet. With the app folder layout only the
// app's own folder is moved, as in Uninstall.
func (a *App) UninstallTo(saveLocation string) (*uninstall.Result, error) {
	u := uninstall.New(a.fs, a.registrar)
	result, err := u.MoveApp(a.record.ShortcutNames(), a.record.TargetDir(), saveLocation, a.record.Scope)
	a.finish(result, err)
	return result, err
}

// finish records the outcome of an uninstall
func (a *App) finish(result *uninstall.Result, err error) {
	if result == nil {
		return
	}
	if err != nil && result.State == types.StateInstalled {
		// Refused before anything changed
		return
	}
	a.state = result.State

	switch result.State {
	case types.StateRemoved, types.StateArchived:
		a.pruneCreatedDirs()
		if a.receipts != nil {
			if err := a.receipts.Delete(a.Name()); err != nil {
				a.logger.Warn().Err(err).Msg("Failed to delete install receipt")
			}
		}
	case types.StateDegraded:
		if a.receipts != nil {
			err := a.receipts.MarkState(a.Name(), types.StateDegraded)
			if err != nil && !errors.IsErrorCode(err, errors.ErrReceiptNotFound) {
				a.logger.Warn().Err(err).Msg("Failed to mark install receipt degraded")
			}
		}
	}
}

// pruneCreatedDirs removes directories the install created that are now
// empty, deepest first. Without a record of what was created, an app
// folder layout prunes the install location when it is empty.
func (a *App) pruneCreatedDirs() {
	dirs := a.createdDirs
	if len(dirs) == 0 && a.record.InAppFolder {
		dirs = []string{a.record.InstallLocation}
	}
	dirs = append([]string(nil), dirs...)
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})

	for _, dir := range dirs {
		entries, err := a.fs.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				a.logger.Debug().Err(err).Str("dir", dir).Msg("Cannot inspect directory, leaving it")
			}
			continue
		}
		if len(entries) > 0 {
			continue
		}
		if err := a.fs.Remove(dir); err != nil {
			a.logger.Debug().Err(err).Str("dir", dir).Msg("Cannot prune directory")
			continue
		}
		a.logger.Debug().Str("dir", dir).Msg("Pruned empty directory")
	}
	a.createdDirs = nil
}

func (a *App) saveReceipt(result *install.Result) {
	if a.receipts == nil {
		return
	}
	r := &datastore.Receipt{
		Name:                a.Name(),
		InstallLocation:     a.record.InstallLocation,
		TargetDir:           result.TargetDir,
		Scope:               a.record.Scope,
		InAppFolder:         a.record.InAppFolder,
		State:               types.StateInstalled,
		RegisteredShortcuts: result.RegisteredShortcuts,
		Executables:         a.record.Executables,
		CreatedDirs:         result.CreatedDirs,
	}
	for _, art := range result.Artifacts {
		r.Artifacts = append(r.Artifacts, datastore.ArtifactRecord{
			ShortcutName: art.ShortcutName,
			Path:         art.Path,
			Size:         art.Size,
			Checksum:     art.Checksum,
		})
	}
	if err := a.receipts.Save(r); err != nil {
		// The install itself stands; only lookup by name is lost
		a.logger.Warn().Err(err).Msg("Failed to save install receipt")
	}
}
