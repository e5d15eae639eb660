package install

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
)

// Install steps named in error details
const (
	StepValidate  = "validate"
	StepPreflight = "preflight"
	StepMkdir     = "mkdir"
	StepCopy      = "copy"
	StepRegister  = "register"
)

// Rollback outcomes named in error details
const (
	RollbackComplete   = "complete"
	RollbackIncomplete = "incomplete"
)

// Options tune an install beyond the record data
type Options struct {
	// AppFolder names the folder created under the install location when
	// inAppFolder is set. Empty means the shortcut name of the first
	// primary executable.
	AppFolder string

	// Shortcuts decides which executables are registered
	Shortcuts ShortcutPolicy

	// Comment is passed to every registered shortcut
	Comment string
}

// Artifact is one installed file
type Artifact struct {
	ShortcutName string `json:"shortcut" yaml:"shortcut" toml:"shortcut"`
	Source       string `json:"source" yaml:"source" toml:"source"`
	Path         string `json:"path" yaml:"path" toml:"path"`
	Size         int64  `json:"size" yaml:"size" toml:"size"`
	Checksum     string `json:"checksum" yaml:"checksum" toml:"checksum"`
}

// Result describes what an install did
type Result struct {
	TargetDir            string     `json:"target_dir" yaml:"target_dir"`
	Artifacts            []Artifact `json:"artifacts" yaml:"artifacts"`
	RegisteredShortcuts  []string   `json:"registered_shortcuts" yaml:"registered_shortcuts"`
	FailedShortcuts      []string   `json:"failed_shortcuts,omitempty" yaml:"failed_shortcuts,omitempty"`
	CreatedDirs          []string   `json:"created_dirs,omitempty" yaml:"created_dirs,omitempty"`
	RegistrationComplete bool       `json:"registration_complete" yaml:"registration_complete"`
}

// Installer places artifacts and registers their shortcuts
type Installer struct {
	fs        types.FS
	registrar shortcuts.Registrar
}

// New returns an Installer working through fsys and registrar
func New(fsys types.FS, registrar shortcuts.Registrar) *Installer {
	return &Installer{fs: fsys, registrar: registrar}
}

// plannedCopy is one artifact resolved against source and target
type plannedCopy struct {
	exe  types.Executable
	src  string
	dest string
}

// Install copies every executable from sourceRoot into the target directory
// and registers shortcuts in scope.
//
// The target directory is installLocation, or installLocation/<AppFolder>
// when inAppFolder is set. Nothing is written until every artifact was
// found at its source and no destination exists yet. Artifacts are copied
// one at a time in the given order.
func (i *Installer) Install(executables []types.Executable, sourceRoot, installLocation string, inAppFolder bool, scope types.Scope, opts Options) (*Result, error) {
	record := types.Installation{
		Name:            opts.AppFolder,
		Executables:     executables,
		InstallLocation: installLocation,
		Scope:           scope,
		InAppFolder:     inAppFolder,
	}
	targetDir := record.TargetDir()

	logger := logging.GetLogger("install").With().
		Str("target", targetDir).
		Str("scope", scope.String()).
		Logger()
	done := logging.LogOperationStart(logger, "install")
	defer done()

	if err := record.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid installation").
			WithDetail(errors.DetailStep, StepValidate)
	}

	plan, err := i.preflight(executables, sourceRoot, targetDir)
	if err != nil {
		return nil, err
	}

	tx := newPending(i.fs, i.registrar, scope)
	defer tx.rollbackUnlessDone()

	result := &Result{TargetDir: targetDir}

	for _, dir := range requiredDirs(targetDir, plan) {
		created, err := i.mkdirTracked(dir, tx)
		if err != nil {
			rollbackErr := tx.rollback()
			return nil, errors.Wrapf(err, errors.ErrTargetUnwritable, "cannot create %s", dir).
				WithDetail(errors.DetailStep, StepMkdir).
				WithDetail(errors.DetailPath, dir).
				WithDetail(errors.DetailRollback, rollbackOutcome(rollbackErr))
		}
		result.CreatedDirs = append(result.CreatedDirs, created...)
	}

	for _, c := range plan {
		stats, err := filesystem.CopyFile(i.fs, c.src, c.dest)
		if err != nil {
			// A failed copy may have left a partial file behind
			if _, statErr := i.fs.Stat(c.dest); statErr == nil {
				tx.addFile(c.dest)
			}
			rollbackErr := tx.rollback()
			outcome := rollbackOutcome(rollbackErr)
			logger.Error().
				Err(err).
				Str("executable", c.exe.ShortcutName).
				Str("rollback", outcome).
				Msg("Copy failed, install rolled back")
			cause := err
			if rollbackErr != nil {
				cause = stderrors.Join(err, rollbackErr)
			}
			return nil, errors.Wrapf(cause, errors.ErrCopyFailed, "failed to copy %s", c.exe.ShortcutName).
				WithDetail(errors.DetailExecutable, c.exe.ShortcutName).
				WithDetail(errors.DetailStep, StepCopy).
				WithDetail(errors.DetailPath, c.dest).
				WithDetail(errors.DetailRollback, outcome)
		}
		tx.addFile(c.dest)
		result.Artifacts = append(result.Artifacts, Artifact{
			ShortcutName: c.exe.ShortcutName,
			Source:       c.src,
			Path:         c.dest,
			Size:         stats.Size,
			Checksum:     stats.Checksum,
		})
		logger.Debug().
			Str("executable", c.exe.ShortcutName).
			Str("path", c.dest).
			Int64("size", stats.Size).
			Msg("Artifact copied")
	}

	var regErrs []error
	for _, c := range plan {
		if !opts.Shortcuts.Wants(c.exe) {
			continue
		}
		sc := types.Shortcut{
			Name:       c.exe.ShortcutName,
			Target:     c.dest,
			WorkingDir: targetDir,
			Primary:    c.exe.Primary,
			Comment:    opts.Comment,
		}
		if err := i.registrar.Register(sc, scope); err != nil {
			logger.Warn().Err(err).Str("executable", sc.Name).Msg("Shortcut registration failed")
			result.FailedShortcuts = append(result.FailedShortcuts, sc.Name)
			regErrs = append(regErrs, err)
			continue
		}
		tx.addShortcut(sc.Name)
		result.RegisteredShortcuts = append(result.RegisteredShortcuts, sc.Name)
	}
	tx.commit()

	if len(regErrs) > 0 {
		return result, errors.Wrapf(stderrors.Join(regErrs...), errors.ErrShortcutRegistration,
			"failed to register %s", strings.Join(result.FailedShortcuts, ", ")).
			WithDetail(errors.DetailStep, StepRegister).
			WithDetail(errors.DetailShortcuts, result.FailedShortcuts).
			WithDetail(errors.DetailState, types.StateInstalled.String())
	}
	result.RegistrationComplete = true

	logger.Info().
		Int("artifacts", len(result.Artifacts)).
		Int("shortcuts", len(result.RegisteredShortcuts)).
		Msg("Install complete")
	return result, nil
}

// preflight resolves every copy and fails before any write when an
// artifact is missing or a destination is taken.
func (i *Installer) preflight(executables []types.Executable, sourceRoot, targetDir string) ([]plannedCopy, error) {
	plan := make([]plannedCopy, 0, len(executables))
	destinations := make(map[string]string, len(executables))

	for _, exe := range executables {
		src := exe.SourcePath(sourceRoot)
		info, err := i.fs.Stat(src)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrArtifactMissing, "artifact for %s not found at %s", exe.ShortcutName, src).
				WithDetail(errors.DetailExecutable, exe.ShortcutName).
				WithDetail(errors.DetailStep, StepPreflight).
				WithDetail(errors.DetailPath, src)
		}
		if info.IsDir() {
			return nil, errors.Newf(errors.ErrArtifactMissing, "artifact for %s at %s is a directory", exe.ShortcutName, src).
				WithDetail(errors.DetailExecutable, exe.ShortcutName).
				WithDetail(errors.DetailStep, StepPreflight).
				WithDetail(errors.DetailPath, src)
		}

		dest := exe.InstalledPath(targetDir)
		if other, taken := destinations[dest]; taken {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s and %s would both install to %s", other, exe.ShortcutName, dest).
				WithDetail(errors.DetailExecutable, exe.ShortcutName).
				WithDetail(errors.DetailStep, StepPreflight).
				WithDetail(errors.DetailPath, dest)
		}
		destinations[dest] = exe.ShortcutName

		if _, err := i.fs.Lstat(dest); err == nil {
			return nil, errors.Newf(errors.ErrTargetConflict, "%s already exists", dest).
				WithDetail(errors.DetailExecutable, exe.ShortcutName).
				WithDetail(errors.DetailStep, StepPreflight).
				WithDetail(errors.DetailPath, dest)
		}

		plan = append(plan, plannedCopy{exe: exe, src: src, dest: dest})
	}
	return plan, nil
}

// requiredDirs lists the target directory and every artifact parent below
// it, parents before children, without duplicates.
func requiredDirs(targetDir string, plan []plannedCopy) []string {
	seen := map[string]bool{targetDir: true}
	dirs := []string{targetDir}
	for _, c := range plan {
		dir := filepath.Dir(c.dest)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// mkdirTracked creates dir and any missing parents, recording each newly
// created directory in tx. It returns the directories it created.
func (i *Installer) mkdirTracked(dir string, tx *pending) ([]string, error) {
	var missing []string
	for current := dir; ; current = filepath.Dir(current) {
		info, err := i.fs.Stat(current)
		if err == nil {
			if !info.IsDir() {
				return nil, &os.PathError{Op: "mkdir", Path: current, Err: os.ErrExist}
			}
			break
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
		missing = append(missing, current)
		if parent := filepath.Dir(current); parent == current {
			break
		}
	}

	var created []string
	for idx := len(missing) - 1; idx >= 0; idx-- {
		if err := i.fs.MkdirAll(missing[idx], 0755); err != nil {
			return created, err
		}
		tx.addDir(missing[idx])
		created = append(created, missing[idx])
	}
	return created, nil
}

func rollbackOutcome(err error) string {
	if err != nil {
		return RollbackIncomplete
	}
	return RollbackComplete
}
