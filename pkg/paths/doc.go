// Package paths provides centralized path handling for prebuilt.
//
// It implements the XDG Base Directory specification on Unix-like systems
// and the Windows known folders on Windows, and answers every "where does
// this go" question the other packages have:
//
//   - prebuilt's own config, data and state directories
//   - where install receipts and lock files live
//   - the menu (applications / Start Menu) and desktop directories for a
//     given scope
//   - the default install location for a given scope
//
// # Environment Variables
//
//   - PREBUILT_CONFIG_DIR: override the config directory
//     (default: $XDG_CONFIG_HOME/prebuilt)
//   - PREBUILT_DATA_DIR: override the data directory
//     (default: $XDG_DATA_HOME/prebuilt)
//   - PREBUILT_STATE_DIR: override the state directory
//     (default: $XDG_STATE_HOME/prebuilt)
//   - PREBUILT_MENU_DIR / PREBUILT_SYSTEM_MENU_DIR: override the per-user
//     and all-users menu directories
//   - PREBUILT_DESKTOP_DIR / PREBUILT_SYSTEM_DESKTOP_DIR: override the
//     per-user and all-users desktop directories
//
// # Usage
//
//	p, err := paths.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	menu := p.MenuDir(types.PerUser)      // ~/.local/share/applications
//	receipts := p.ReceiptsDir()           // ~/.local/state/prebuilt/receipts
//	loc := p.DefaultInstallLocation(types.AllUsers) // /opt
package paths
