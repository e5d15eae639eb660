// Package types defines the core data model used throughout prebuilt.
// This includes the Executable and Installation records, the Scope and
// State enumerations, the Shortcut description handed to registrars, and
// the FS interface every component performs its I/O through.
package types
