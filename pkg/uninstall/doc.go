// Package uninstall reverses an installation, either destructively or by
// relocating the installed tree to a save location.
//
// Both operations remove every shortcut before filesystem content is
// touched. A shortcut that is already gone is logged and skipped; any other
// unregister failure stops the operation with the files untouched. Delete
// and move failures are not retried and leave the application Degraded.
package uninstall
