//go:build !windows

package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

func platformDirs(home string) platformLocations {
	systemData := "/usr/local/share"
	if len(xdg.DataDirs) > 0 {
		systemData = xdg.DataDirs[0]
	}

	userDesktop := xdg.UserDirs.Desktop
	if userDesktop == "" {
		userDesktop = filepath.Join(home, "Desktop")
	}

	// There is no shared desktop on freedesktop systems
	return platformLocations{
		userMenu:      filepath.Join(xdg.DataHome, "applications"),
		systemMenu:    filepath.Join(systemData, "applications"),
		userDesktop:   userDesktop,
		systemDesktop: "",
		userInstall:   filepath.Join(home, ".local", "opt"),
		systemInstall: "/opt",
	}
}
