package filesystem

import (
	"fmt"

	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/types"
)

// Move stages reported by MoveError
const (
	StageRename       = "rename"
	StageCopy         = "copy"
	StageRemoveSource = "remove-source"
)

// MoveError reports which stage of a Move failed.
type MoveError struct {
	Stage string
	From  string
	To    string
	Err   error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s -> %s failed at %s: %v", e.From, e.To, e.Stage, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// Move relocates the file or tree at src to dst. It is a single rename when
// both paths are on the same volume. When the rename crosses volumes it
// falls back to copying dst and then removing src. A failed copy removes
// whatever was written to dst and leaves src untouched.
func Move(fsys types.FS, src, dst string) error {
	logger := logging.GetLogger("filesystem.move")

	err := fsys.Rename(src, dst)
	if err == nil {
		logger.Debug().Str("from", src).Str("to", dst).Msg("Moved with rename")
		return nil
	}
	if !IsCrossDevice(err) {
		return &MoveError{Stage: StageRename, From: src, To: dst, Err: err}
	}

	logger.Debug().
		Str("from", src).
		Str("to", dst).
		Msg("Rename crosses volumes, copying instead")

	if err := CopyTree(fsys, src, dst); err != nil {
		if cleanupErr := fsys.RemoveAll(dst); cleanupErr != nil {
			logger.Warn().Err(cleanupErr).Str("path", dst).Msg("Failed to remove partial copy")
		}
		return &MoveError{Stage: StageCopy, From: src, To: dst, Err: err}
	}

	if err := fsys.RemoveAll(src); err != nil {
		return &MoveError{Stage: StageRemoveSource, From: src, To: dst, Err: err}
	}
	return nil
}
