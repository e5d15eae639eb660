//go:build windows

package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const startMenuPrograms = `Microsoft\Windows\Start Menu\Programs`

func platformDirs(home string) platformLocations {
	appData := envOr("APPDATA", filepath.Join(home, "AppData", "Roaming"))
	localAppData := envOr("LOCALAPPDATA", filepath.Join(home, "AppData", "Local"))
	programData := envOr("ProgramData", `C:\ProgramData`)
	public := envOr("PUBLIC", `C:\Users\Public`)
	programFiles := envOr("ProgramFiles", `C:\Program Files`)

	userDesktop := xdg.UserDirs.Desktop
	if userDesktop == "" {
		userDesktop = filepath.Join(home, "Desktop")
	}

	return platformLocations{
		userMenu:      filepath.Join(appData, startMenuPrograms),
		systemMenu:    filepath.Join(programData, startMenuPrograms),
		userDesktop:   userDesktop,
		systemDesktop: filepath.Join(public, "Desktop"),
		userInstall:   filepath.Join(localAppData, "Programs"),
		systemInstall: programFiles,
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
