//go:build windows

package filesystem

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// IsCrossDevice reports whether err is a rename failure caused by the
// source and destination living on different volumes.
func IsCrossDevice(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}

// NewCrossDeviceError builds the error a rename across volumes returns.
func NewCrossDeviceError(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: windows.ERROR_NOT_SAME_DEVICE}
}
