package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/mitchellh/go-homedir"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for prebuilt
	EnvConfigDir = "PREBUILT_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for prebuilt
	EnvDataDir = "PREBUILT_DATA_DIR"

	// EnvStateDir overrides the XDG state directory for prebuilt
	EnvStateDir = "PREBUILT_STATE_DIR"

	// EnvMenuDir overrides the per-user menu directory
	EnvMenuDir = "PREBUILT_MENU_DIR"

	// EnvSystemMenuDir overrides the all-users menu directory
	EnvSystemMenuDir = "PREBUILT_SYSTEM_MENU_DIR"

	// EnvDesktopDir overrides the per-user desktop directory
	EnvDesktopDir = "PREBUILT_DESKTOP_DIR"

	// EnvSystemDesktopDir overrides the all-users desktop directory
	EnvSystemDesktopDir = "PREBUILT_SYSTEM_DESKTOP_DIR"
)

// Directory and file names inside prebuilt's own directories. These are
// not user-configurable.
const (
	// AppDirName is the directory name for prebuilt-specific files
	AppDirName = "prebuilt"

	// ReceiptsDirName holds one receipt per installed application
	ReceiptsDirName = "receipts"

	// LocksDirName holds the per-install-location lock files
	LocksDirName = "locks"

	// LogFileName is the name of the log file
	LogFileName = "prebuilt.log"

	// ManifestFileName is the default app manifest name
	ManifestFileName = "prebuilt.toml"
)

// Paths provides centralized path management for prebuilt
type Paths interface {
	ConfigDir() string
	DataDir() string
	StateDir() string
	ReceiptsDir() string
	LocksDir() string
	LogFilePath() string

	// MenuDir is where menu entries for scope are registered
	MenuDir(scope types.Scope) string

	// DesktopDir is where desktop shortcuts for scope go. It is empty when
	// the platform has no desktop for scope.
	DesktopDir(scope types.Scope) string

	// DefaultInstallLocation is the install root used when none is given
	DefaultInstallLocation(scope types.Scope) string
}

type paths struct {
	configDir string
	dataDir   string
	stateDir  string

	menuDirs    map[types.Scope]string
	desktopDirs map[types.Scope]string
	installDirs map[types.Scope]string
}

// New creates a Paths instance from the environment. Environment overrides
// win over XDG and known-folder locations.
func New() (Paths, error) {
	home, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}

	p := &paths{
		configDir: fromEnv(EnvConfigDir, filepath.Join(xdg.ConfigHome, AppDirName)),
		dataDir:   fromEnv(EnvDataDir, filepath.Join(xdg.DataHome, AppDirName)),
		stateDir:  fromEnv(EnvStateDir, filepath.Join(stateHome(home), AppDirName)),
	}

	platform := platformDirs(home)
	p.menuDirs = map[types.Scope]string{
		types.PerUser:  fromEnv(EnvMenuDir, platform.userMenu),
		types.AllUsers: fromEnv(EnvSystemMenuDir, platform.systemMenu),
	}
	p.desktopDirs = map[types.Scope]string{
		types.PerUser:  fromEnv(EnvDesktopDir, platform.userDesktop),
		types.AllUsers: fromEnv(EnvSystemDesktopDir, platform.systemDesktop),
	}
	p.installDirs = map[types.Scope]string{
		types.PerUser:  platform.userInstall,
		types.AllUsers: platform.systemInstall,
	}

	return p, nil
}

// platformLocations are the OS defaults before environment overrides
type platformLocations struct {
	userMenu      string
	systemMenu    string
	userDesktop   string
	systemDesktop string
	userInstall   string
	systemInstall string
}

// stateHome returns XDG_STATE_HOME, falling back to ~/.local/state
func stateHome(home string) string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	if xdg.StateHome != "" {
		return xdg.StateHome
	}
	return filepath.Join(home, ".local", "state")
}

func fromEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return ExpandHome(value)
	}
	return fallback
}

func (p *paths) ConfigDir() string {
	return p.configDir
}

func (p *paths) DataDir() string {
	return p.dataDir
}

func (p *paths) StateDir() string {
	return p.stateDir
}

// ReceiptsDir returns the directory install receipts are written to
func (p *paths) ReceiptsDir() string {
	return filepath.Join(p.stateDir, ReceiptsDirName)
}

// LocksDir returns the directory lock files are created in
func (p *paths) LocksDir() string {
	return filepath.Join(p.stateDir, LocksDirName)
}

// LogFilePath returns the path to the prebuilt log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

func (p *paths) MenuDir(scope types.Scope) string {
	return p.menuDirs[scope]
}

func (p *paths) DesktopDir(scope types.Scope) string {
	return p.desktopDirs[scope]
}

func (p *paths) DefaultInstallLocation(scope types.Scope) string {
	return p.installDirs[scope]
}

// ExpandHome expands a leading ~ to the user's home directory. Paths it
// cannot expand are returned unchanged.
func ExpandHome(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// NormalizePath expands ~ and makes path absolute and clean.
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", path)
	}
	return abs, nil
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to get home directory")
	}
	return home, nil
}
