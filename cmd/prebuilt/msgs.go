package prebuilt

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Install and remove prebuilt applications"
	MsgInstallShort    = "Install an application from a directory of built executables"
	MsgUninstallShort  = "Remove or archive an installed application"
	MsgStatusShort     = "Show installed applications"
	MsgInitShort       = "Create a manifest for an application"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgNoApps           = "No applications installed."
	MsgManifestCreated  = "Created %s"
	MsgDefaultLocation  = "No install location given, using %s"
	MsgInstalledTitle   = "Installed %s"
	MsgRemovedTitle     = "Removed %s"
	MsgArchivedTitle    = "Archived %s"
	MsgDegradedTitle    = "%s is partially removed"
	MsgStatusTitle      = "Installed applications"
	MsgInstallUserScope = "Installed for the current user."
	MsgInstallAllScope  = "Installed for all users."
	MsgFailedShortcuts  = "%d shortcut(s) could not be registered, the files are installed"
	MsgDegradedHint     = "fix the cause and run uninstall again"
	MsgArtifactsChanged = "%d installed file(s) are missing or changed"

	// Error messages
	MsgErrInitPaths      = "failed to initialize paths: %w"
	MsgErrNoExecutables  = "no manifest found in %s and no --exe given"
	MsgErrBadExe         = "invalid --exe %q, expected binary[=shortcut]"
	MsgErrAlreadyPresent = "%s is already installed at %s, uninstall it first"
	MsgErrWrongScope     = "%s is installed for %s, not %s"
	MsgErrManifestExists = "%s already exists"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat    = "Output format: auto, term, text, json or yaml"
	MsgFlagManifest  = "Manifest file (default: prebuilt.toml, .yaml or .yml in the source directory)"
	MsgFlagLocation  = "Install location (default: per-scope application directory)"
	MsgFlagScope     = "Scope: user or all-users"
	MsgFlagAppFolder = "Install into <location>/<name> instead of <location>"
	MsgFlagShortcuts = "Which executables get shortcuts: all or primary"
	MsgFlagName      = "Application name (default: shortcut of the primary executable)"
	MsgFlagComment   = "Description attached to the shortcuts"
	MsgFlagExe       = "Executable as binary[=shortcut], repeatable; the first one is primary"
	MsgFlagArchive   = "Move the installed files here instead of deleting them"
	MsgFlagDir       = "Directory to write the manifest to"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/uninstall-long.txt
	msgUninstallLongRaw string
	MsgUninstallLong    = strings.TrimSpace(msgUninstallLongRaw)

	//go:embed msgs/uninstall-example.txt
	msgUninstallExampleRaw string
	MsgUninstallExample    = strings.TrimRight(msgUninstallExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
