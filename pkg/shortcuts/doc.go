// Package shortcuts creates and removes the OS entry points of installed
// applications.
//
// The Registrar interface is the only thing the installer and uninstaller
// see. Two implementations live here:
//
//   - Freedesktop writes .desktop entries into the scope's applications
//     directory, with a copy on the desktop for primary entry points
//   - Windows (windows builds only) writes .lnk files into the Start Menu
//     and onto the desktop, and an App Paths registry key per entry point
//
// Both honor the scope strictly: per-user registrations never touch
// all-users locations and vice versa. Unregister returns an error coded
// errors.ErrShortcutNotFound when nothing was registered under the name.
package shortcuts
