//go:build !windows

package shortcuts

import "github.com/arthur-debert/prebuilt/pkg/types"

// NewDefault returns the registrar for the running platform
func NewDefault(fsys types.FS, locations Locations) Registrar {
	return NewFreedesktop(fsys, locations)
}
