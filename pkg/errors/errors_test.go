package errors_test

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"new", errors.New(errors.ErrArtifactMissing, "artifact not found"), "[ARTIFACT_MISSING] artifact not found"},
		{"newf", errors.Newf(errors.ErrTargetConflict, "%s exists", "/opt/myapp/app.exe"), "[TARGET_CONFLICT] /opt/myapp/app.exe exists"},
		{"wrap", errors.Wrap(fs.ErrPermission, errors.ErrDeleteFailed, "cannot delete /opt/myapp"), "[DELETE_FAILED] cannot delete /opt/myapp: permission denied"},
		{"wrapf", errors.Wrapf(fs.ErrExist, errors.ErrMoveFailed, "cannot move to %s", "/backup/myapp"), "[MOVE_FAILED] cannot move to /backup/myapp: file already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.NotNil(t, errors.GetErrorDetails(tt.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrCopyFailed, "copy"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrCopyFailed, "copy %s", "x"))
}

func TestDetails(t *testing.T) {
	err := errors.New(errors.ErrCopyFailed, "copy failed").
		WithDetail(errors.DetailExecutable, "MyApp").
		WithDetails(map[string]interface{}{
			errors.DetailStep:     "copy",
			errors.DetailRollback: "complete",
		})

	assert.Equal(t, "MyApp", errors.GetDetailString(err, errors.DetailExecutable))
	assert.Equal(t, "copy", errors.GetDetailString(err, errors.DetailStep))
	assert.Equal(t, "complete", errors.GetDetailString(err, errors.DetailRollback))
	assert.Empty(t, errors.GetDetailString(err, errors.DetailPath))

	zero := &errors.PrebuiltError{Code: errors.ErrInternal}
	zero.WithDetail(errors.DetailPath, "/opt")
	assert.Equal(t, "/opt", errors.GetDetailString(zero, errors.DetailPath))
}

func TestCodeMatching(t *testing.T) {
	base := errors.Wrap(fs.ErrNotExist, errors.ErrShortcutNotFound, "no shortcut MyApp")
	wrapped := fmt.Errorf("uninstall: %w", base)

	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrShortcutNotFound))
	assert.False(t, errors.IsErrorCode(wrapped, errors.ErrShortcutRemoval))
	assert.Equal(t, errors.ErrShortcutNotFound, errors.GetErrorCode(wrapped))

	assert.True(t, stderrors.Is(wrapped, errors.New(errors.ErrShortcutNotFound, "")))
	assert.False(t, stderrors.Is(wrapped, errors.New(errors.ErrDeleteFailed, "")))
	assert.True(t, stderrors.Is(wrapped, fs.ErrNotExist))

	var pe *errors.PrebuiltError
	require.True(t, stderrors.As(wrapped, &pe))
	assert.Equal(t, "no shortcut MyApp", pe.Message)
}

func TestForeignErrors(t *testing.T) {
	plain := stderrors.New("boom")

	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(plain))
	assert.Nil(t, errors.GetErrorDetails(plain))
	assert.Empty(t, errors.GetDetailString(plain, errors.DetailPath))
	assert.False(t, errors.IsErrorCode(nil, errors.ErrUnknown))
}

func TestOutermostCodeWins(t *testing.T) {
	inner := errors.New(errors.ErrCopyFailed, "copy")
	outer := errors.Wrap(inner, errors.ErrMoveFailed, "move")

	assert.Equal(t, errors.ErrMoveFailed, errors.GetErrorCode(outer))
	assert.True(t, stderrors.Is(outer, errors.New(errors.ErrCopyFailed, "")))
}
