package uninstall

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/filesystem"
	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/shortcuts"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/rs/zerolog"
)

// Uninstall steps named in error details
const (
	StepValidate   = "validate"
	StepUnregister = "unregister"
	StepDelete     = "delete"
	StepMove       = "move"
)

// Result describes what an uninstall did
type Result struct {
	State            types.State `json:"state" yaml:"state"`
	InstallLocation  string      `json:"install_location" yaml:"install_location"`
	SaveLocation     string      `json:"save_location,omitempty" yaml:"save_location,omitempty"`
	RemovedShortcuts []string    `json:"removed_shortcuts" yaml:"removed_shortcuts"`
	MissingShortcuts []string    `json:"missing_shortcuts,omitempty" yaml:"missing_shortcuts,omitempty"`
}

// Uninstaller removes shortcuts and installed files
type Uninstaller struct {
	fs        types.FS
	registrar shortcuts.Registrar
}

// New returns an Uninstaller working through fsys and registrar
func New(fsys types.FS, registrar shortcuts.Registrar) *Uninstaller {
	return &Uninstaller{fs: fsys, registrar: registrar}
}

// UninstallApp unregisters every shortcut in scope, then deletes
// installLocation and everything below it.
func (u *Uninstaller) UninstallApp(shortcutNames []string, installLocation string, scope types.Scope) (*Result, error) {
	logger := logging.GetLogger("uninstall").With().
		Str("location", installLocation).
		Str("scope", scope.String()).
		Logger()
	done := logging.LogOperationStart(logger, "uninstall")
	defer done()

	result := &Result{State: types.StateInstalled, InstallLocation: installLocation}

	if err := validateLocation(installLocation); err != nil {
		return result, err
	}

	if err := u.unregisterAll(logger, shortcutNames, scope, result); err != nil {
		return result, err
	}

	if err := u.fs.RemoveAll(installLocation); err != nil {
		result.State = types.StateDegraded
		logger.Error().Err(err).Msg("Delete failed after shortcuts were removed")
		return result, errors.Wrapf(err, errors.ErrDeleteFailed, "failed to delete %s", installLocation).
			WithDetail(errors.DetailStep, StepDelete).
			WithDetail(errors.DetailPath, installLocation).
			WithDetail(errors.DetailState, result.State.String())
	}

	result.State = types.StateRemoved
	logger.Info().Int("shortcuts", len(result.RemovedShortcuts)).Msg("Application removed")
	return result, nil
}

// MoveApp unregisters every shortcut in scope, then moves the tree at
// installLocation to saveLocation. saveLocation must not exist yet and must
// not be inside installLocation; both are checked before any shortcut is
// touched.
func (u *Uninstaller) MoveApp(shortcutNames []string, installLocation, saveLocation string, scope types.Scope) (*Result, error) {
	logger := logging.GetLogger("uninstall").With().
		Str("location", installLocation).
		Str("save", saveLocation).
		Str("scope", scope.String()).
		Logger()
	done := logging.LogOperationStart(logger, "move")
	defer done()

	result := &Result{
		State:           types.StateInstalled,
		InstallLocation: installLocation,
		SaveLocation:    saveLocation,
	}

	if err := u.preflightMove(installLocation, saveLocation); err != nil {
		return result, err
	}

	if err := u.unregisterAll(logger, shortcutNames, scope, result); err != nil {
		return result, err
	}

	moveFailed := func(err error, code errors.ErrorCode, msg string) error {
		result.State = types.StateDegraded
		logger.Error().Err(err).Msg(msg)
		return errors.Wrap(err, code, msg).
			WithDetail(errors.DetailStep, StepMove).
			WithDetail(errors.DetailPath, saveLocation).
			WithDetail(errors.DetailState, result.State.String())
	}

	created := u.missingDirs(filepath.Dir(saveLocation))
	if err := u.fs.MkdirAll(filepath.Dir(saveLocation), 0755); err != nil {
		u.removeEmptyDirs(logger, created)
		return result, moveFailed(err, errors.ErrMoveFailed, "failed to create the save location parent")
	}

	if err := filesystem.Move(u.fs, installLocation, saveLocation); err != nil {
		var moveErr *filesystem.MoveError
		if stderrors.As(err, &moveErr) && moveErr.Stage == filesystem.StageRemoveSource {
			// The copy is complete, only the original is left behind
			return result, moveFailed(err, errors.ErrDeleteFailed, "application copied but the original could not be deleted")
		}
		u.removeEmptyDirs(logger, created)
		return result, moveFailed(err, errors.ErrMoveFailed, "failed to move the application")
	}

	result.State = types.StateArchived
	logger.Info().Int("shortcuts", len(result.RemovedShortcuts)).Msg("Application archived")
	return result, nil
}

// missingDirs returns dir and each of its ancestors that does not exist yet,
// deepest first.
func (u *Uninstaller) missingDirs(dir string) []string {
	var missing []string
	for {
		if _, err := u.fs.Stat(dir); err == nil {
			return missing
		}
		missing = append(missing, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			return missing
		}
		dir = parent
	}
}

// removeEmptyDirs undoes MkdirAll for dirs, stopping at the first one that
// is not empty.
func (u *Uninstaller) removeEmptyDirs(logger zerolog.Logger, dirs []string) {
	for _, dir := range dirs {
		entries, err := u.fs.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return
		}
		if len(entries) > 0 {
			return
		}
		if err := u.fs.Remove(dir); err != nil {
			logger.Debug().Err(err).Str("dir", dir).Msg("Cannot remove save location parent")
			return
		}
		logger.Debug().Str("dir", dir).Msg("Removed save location parent")
	}
}

// unregisterAll removes every shortcut. Not-found is tolerated, anything
// else stops here so files are never touched with shortcuts still live.
func (u *Uninstaller) unregisterAll(logger zerolog.Logger, names []string, scope types.Scope, result *Result) error {
	for _, name := range names {
		err := u.registrar.Unregister(name, scope)
		switch {
		case err == nil:
			result.RemovedShortcuts = append(result.RemovedShortcuts, name)
			logger.Debug().Str("shortcut", name).Msg("Shortcut removed")
		case shortcuts.IsNotFound(err):
			result.MissingShortcuts = append(result.MissingShortcuts, name)
			logger.Warn().Str("shortcut", name).Msg("Shortcut already gone, continuing")
		default:
			// The registrar is in an unknown state for name
			result.State = types.StateDegraded
			logger.Error().Err(err).Str("shortcut", name).Msg("Shortcut removal failed, files left in place")
			return errors.Wrapf(err, errors.ErrShortcutRemoval, "failed to remove shortcut %s", name).
				WithDetail(errors.DetailStep, StepUnregister).
				WithDetail(errors.DetailShortcuts, []string{name}).
				WithDetail(errors.DetailState, result.State.String())
		}
	}
	return nil
}

func validateLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return errors.New(errors.ErrInvalidInput, "install location is required").
			WithDetail(errors.DetailStep, StepValidate)
	}
	if !filepath.IsAbs(location) {
		return errors.Newf(errors.ErrInvalidInput, "install location must be absolute: %s", location).
			WithDetail(errors.DetailStep, StepValidate).
			WithDetail(errors.DetailPath, location)
	}
	clean := filepath.Clean(location)
	if filepath.Dir(clean) == clean {
		return errors.Newf(errors.ErrInvalidInput, "refusing to remove filesystem root %s", location).
			WithDetail(errors.DetailStep, StepValidate).
			WithDetail(errors.DetailPath, location)
	}
	return nil
}

func (u *Uninstaller) preflightMove(installLocation, saveLocation string) error {
	if err := validateLocation(installLocation); err != nil {
		return err
	}
	if strings.TrimSpace(saveLocation) == "" {
		return errors.New(errors.ErrInvalidInput, "save location is required").
			WithDetail(errors.DetailStep, StepValidate)
	}
	if !filepath.IsAbs(saveLocation) {
		return errors.Newf(errors.ErrInvalidInput, "save location must be absolute: %s", saveLocation).
			WithDetail(errors.DetailStep, StepValidate).
			WithDetail(errors.DetailPath, saveLocation)
	}
	if isWithin(saveLocation, installLocation) {
		return errors.Newf(errors.ErrInvalidInput, "save location %s is inside %s", saveLocation, installLocation).
			WithDetail(errors.DetailStep, StepValidate).
			WithDetail(errors.DetailPath, saveLocation)
	}
	if _, err := u.fs.Stat(installLocation); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "nothing installed at %s", installLocation).
			WithDetail(errors.DetailStep, StepValidate).
			WithDetail(errors.DetailPath, installLocation)
	}
	if _, err := u.fs.Lstat(saveLocation); err == nil {
		return errors.Newf(errors.ErrTargetConflict, "save location %s already exists", saveLocation).
			WithDetail(errors.DetailStep, StepValidate).
			WithDetail(errors.DetailPath, saveLocation)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot inspect save location %s", saveLocation).
			WithDetail(errors.DetailStep, StepValidate).
			WithDetail(errors.DetailPath, saveLocation)
	}
	return nil
}

// isWithin reports whether path is parent or below it
func isWithin(path, parent string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
