// Package filesystem provides filesystem implementations for prebuilt.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed filesystem used
// by tests. It also holds the copy and move primitives the installer and
// uninstaller build on: streaming file copies, tree copies, and a move
// that falls back to copy-then-delete when a rename crosses volumes.
package filesystem
