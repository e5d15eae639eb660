package install

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/shortcuts"
	"github.com/arthur-debert/prebuilt/pkg/testutil"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleExecutables() []types.Executable {
	return []types.Executable{
		{BinaryPath: "myapp", ShortcutName: "myapp", Primary: true},
		{BinaryPath: "helper", ShortcutName: "helper"},
	}
}

func setupSource(t *testing.T, fsys types.FS) {
	t.Helper()
	testutil.WriteFS(t, fsys, "/src/myapp", "main binary", 0755)
	testutil.WriteFS(t, fsys, "/src/helper", "helper binary", 0750)
	require.NoError(t, fsys.MkdirAll("/opt", 0755))
}

func TestInstall_FlatLayout(t *testing.T) {
	fsys := testutil.NewTestFS()
	setupSource(t, fsys)
	reg := testutil.NewFakeRegistrar(nil)

	result, err := New(fsys, reg).Install(sampleExecutables(), "/src", "/opt/myapp", false, types.PerUser, Options{})
	require.NoError(t, err)

	assert.Equal(t, "/opt/myapp", result.TargetDir)
	assert.True(t, result.RegistrationComplete)
	assert.Equal(t, []string{"/opt/myapp"}, result.CreatedDirs)
	assert.Equal(t, []string{"myapp", "helper"}, result.RegisteredShortcuts)
	assert.Empty(t, result.FailedShortcuts)

	data, err := fsys.ReadFile("/opt/myapp/myapp")
	require.NoError(t, err)
	assert.Equal(t, "main binary", string(data))

	info, err := fsys.Stat("/opt/myapp/helper")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0750), info.Mode().Perm())

	require.Len(t, result.Artifacts, 2)
	assert.Equal(t, "myapp", result.Artifacts[0].ShortcutName)
	assert.Equal(t, "/opt/myapp/myapp", result.Artifacts[0].Path)
	assert.Equal(t, int64(len("main binary")), result.Artifacts[0].Size)
	assert.Contains(t, result.Artifacts[0].Checksum, "sha256:")

	sc, ok := reg.Get("myapp", types.PerUser)
	require.True(t, ok)
	assert.Equal(t, "/opt/myapp/myapp", sc.Target)
	assert.Equal(t, "/opt/myapp", sc.WorkingDir)
	assert.True(t, sc.Primary)

	helper, ok := reg.Get("helper", types.PerUser)
	require.True(t, ok)
	assert.False(t, helper.Primary)
}

func TestInstall_AppFolderLayout(t *testing.T) {
	fsys := testutil.NewTestFS()
	setupSource(t, fsys)
	reg := testutil.NewFakeRegistrar(nil)

	result, err := New(fsys, reg).Install(sampleExecutables(), "/src", "/opt", true, types.PerUser, Options{AppFolder: "MyApp"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/opt", "MyApp"), result.TargetDir)
	assert.True(t, testutil.PathExistsFS(t, fsys, "/opt/MyApp/myapp"))
	assert.True(t, testutil.PathExistsFS(t, fsys, "/opt/MyApp/helper"))
}

func TestInstall_AppFolderDefaultsToPrimaryName(t *testing.T) {
	fsys := testutil.NewTestFS()
	setupSource(t, fsys)

	result, err := New(fsys, testutil.NewFakeRegistrar(nil)).Install(sampleExecutables(), "/src", "/opt", true, types.PerUser, Options{})
	require.NoError(t, err)

	assert.Equal(t, "/opt/myapp", result.TargetDir)
}

func TestInstall_NestedBinaryKeepsLayout(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteFS(t, fsys, "/src/bin/tool", "tool", 0755)
	testutil.WriteFS(t, fsys, "/elsewhere/extra", "extra", 0755)

	executables := []types.Executable{
		{BinaryPath: "bin/tool", ShortcutName: "Tool", Primary: true},
		{BinaryPath: "/elsewhere/extra", ShortcutName: "Extra"},
	}
	result, err := New(fsys, testutil.NewFakeRegistrar(nil)).Install(executables, "/src", "/opt/tool", false, types.PerUser, Options{})
	require.NoError(t, err)

	assert.True(t, testutil.PathExistsFS(t, fsys, "/opt/tool/bin/tool"))
	assert.True(t, testutil.PathExistsFS(t, fsys, "/opt/tool/extra"))
	assert.Contains(t, result.CreatedDirs, "/opt/tool/bin")
}

func TestInstall_PrimaryOnlyPolicy(t *testing.T) {
	fsys := testutil.NewTestFS()
	setupSource(t, fsys)
	reg := testutil.NewFakeRegistrar(nil)

	result, err := New(fsys, reg).Install(sampleExecutables(), "/src", "/opt/myapp", false, types.AllUsers, Options{Shortcuts: PrimaryOnly})
	require.NoError(t, err)

	assert.Equal(t, []string{"myapp"}, result.RegisteredShortcuts)
	assert.Equal(t, []string{"myapp"}, reg.Names(types.AllUsers))
	assert.Empty(t, reg.Names(types.PerUser))
}

func TestInstall_ArtifactMissing(t *testing.T) {
	fsys := testutil.NewTestFS()
	setupSource(t, fsys)
	reg := testutil.NewFakeRegistrar(nil)
	before := testutil.SnapshotFS(t, fsys, "/opt")

	executables := append(sampleExecutables(), types.Executable{BinaryPath: "ghost", ShortcutName: "ghost"})
	result, err := New(fsys, reg).Install(executables, "/src", "/opt/myapp", false, types.PerUser, Options{})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsErrorCode(err, errors.ErrArtifactMissing))
	assert.Equal(t, "ghost", errors.GetDetailString(err, errors.DetailExecutable))
	assert.Equal(t, before, testutil.SnapshotFS(t, fsys, "/opt"))
	assert.Equal(t, 0, reg.Count())
}

func TestInstall_TargetConflict(t *testing.T) {
	fsys := testutil.NewTestFS()
	setupSource(t, fsys)
	testutil.WriteFS(t, fsys, "/opt/myapp/helper", "someone else's", 0644)
	reg := testutil.NewFakeRegistrar(nil)

	_, err := New(fsys, reg).Install(sampleExecutables(), "/src", "/opt/myapp", false, types.PerUser, Options{})

	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetConflict))
	assert.Equal(t, "helper", errors.GetDetailString(err, errors.DetailExecutable))
	data, readErr := fsys.ReadFile("/opt/myapp/helper")
	require.NoError(t, readErr)
	assert.Equal(t, "someone else's", string(data))
	assert.False(t, testutil.PathExistsFS(t, fsys, "/opt/myapp/myapp"))
	assert.Equal(t, 0, reg.Count())
}

func TestInstall_CopyFailureRollsBack(t *testing.T) {
	inner := testutil.NewTestFS()
	setupSource(t, inner)
	before := testutil.SnapshotFS(t, inner, "/opt")
	fsys := testutil.NewFaultyFS(inner, nil)
	fsys.Fail = testutil.FailOn(testutil.OpCreate, "/opt/myapp/helper", fmt.Errorf("disk full"))
	reg := testutil.NewFakeRegistrar(nil)

	result, err := New(fsys, reg).Install(sampleExecutables(), "/src", "/opt/myapp", false, types.PerUser, Options{})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCopyFailed))
	assert.Equal(t, "helper", errors.GetDetailString(err, errors.DetailExecutable))
	assert.Equal(t, StepCopy, errors.GetDetailString(err, errors.DetailStep))
	assert.Equal(t, RollbackComplete, errors.GetDetailString(err, errors.DetailRollback))

	assert.Equal(t, before, testutil.SnapshotFS(t, inner, "/opt"))
	assert.Equal(t, 0, reg.Count())
}

func TestInstall_RollbackIncomplete(t *testing.T) {
	inner := testutil.NewTestFS()
	setupSource(t, inner)
	fsys := testutil.NewFaultyFS(inner, nil)
	fsys.Fail = func(op, path string) error {
		switch {
		case op == testutil.OpCreate && path == "/opt/myapp/helper":
			return fmt.Errorf("disk full")
		case op == testutil.OpRemove && path == "/opt/myapp/myapp":
			return fmt.Errorf("busy")
		}
		return nil
	}

	_, err := New(fsys, testutil.NewFakeRegistrar(nil)).Install(sampleExecutables(), "/src", "/opt/myapp", false, types.PerUser, Options{})

	assert.True(t, errors.IsErrorCode(err, errors.ErrCopyFailed))
	assert.Equal(t, RollbackIncomplete, errors.GetDetailString(err, errors.DetailRollback))
}

func TestInstall_TargetUnwritable(t *testing.T) {
	inner := testutil.NewTestFS()
	setupSource(t, inner)
	fsys := testutil.NewFaultyFS(inner, nil)
	fsys.Fail = testutil.FailOn(testutil.OpMkdir, "/opt/myapp", os.ErrPermission)
	reg := testutil.NewFakeRegistrar(nil)

	_, err := New(fsys, reg).Install(sampleExecutables(), "/src", "/opt/myapp", false, types.PerUser, Options{})

	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetUnwritable))
	assert.Equal(t, "/opt/myapp", errors.GetDetailString(err, errors.DetailPath))
	assert.False(t, testutil.PathExistsFS(t, inner, "/opt/myapp"))
	assert.Equal(t, 0, reg.Count())
}

func TestInstall_TargetIsAFile(t *testing.T) {
	fsys := testutil.NewTestFS()
	setupSource(t, fsys)
	testutil.WriteFS(t, fsys, "/opt/myapp", "not a dir", 0644)

	_, err := New(fsys, testutil.NewFakeRegistrar(nil)).Install(sampleExecutables(), "/src", "/opt/myapp/sub", false, types.PerUser, Options{})

	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetUnwritable))
}

func TestInstall_RegistrationFailureKeepsCopies(t *testing.T) {
	fsys := testutil.NewTestFS()
	setupSource(t, fsys)
	reg := testutil.NewFakeRegistrar(nil)
	reg.RegisterFunc = func(sc types.Shortcut, _ types.Scope) error {
		if sc.Name == "myapp" {
			return fmt.Errorf("menu is read-only")
		}
		return nil
	}

	result, err := New(fsys, reg).Install(sampleExecutables(), "/src", "/opt/myapp", false, types.PerUser, Options{})

	require.Error(t, err)
	require.NotNil(t, result)
	assert.True(t, errors.IsErrorCode(err, errors.ErrShortcutRegistration))
	assert.False(t, result.RegistrationComplete)
	assert.Equal(t, []string{"myapp"}, result.FailedShortcuts)
	assert.Equal(t, []string{"helper"}, result.RegisteredShortcuts)
	assert.Equal(t, []string{"myapp"}, errors.GetErrorDetails(err)[errors.DetailShortcuts])

	// copies stay
	assert.True(t, testutil.PathExistsFS(t, fsys, "/opt/myapp/myapp"))
	assert.True(t, testutil.PathExistsFS(t, fsys, "/opt/myapp/helper"))
	assert.True(t, reg.Has("helper", types.PerUser))
}

func TestInstall_InvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		executables []types.Executable
		location    string
		inAppFolder bool
	}{
		{
			name:     "no executables",
			location: "/opt/myapp",
		},
		{
			name: "duplicate shortcut names",
			executables: []types.Executable{
				{BinaryPath: "myapp", ShortcutName: "myapp"},
				{BinaryPath: "helper", ShortcutName: "myapp"},
			},
			location: "/opt/myapp",
		},
		{
			name:        "relative location",
			executables: sampleExecutables(),
			location:    "opt/myapp",
		},
		{
			name: "shortcut names sharing an entry point",
			executables: []types.Executable{
				{BinaryPath: "myapp", ShortcutName: "My App", Primary: true},
				{BinaryPath: "helper", ShortcutName: "my-app"},
			},
			location: "/opt/myapp",
		},
		{
			name: "two artifacts one destination",
			executables: []types.Executable{
				{BinaryPath: "myapp", ShortcutName: "a"},
				{BinaryPath: "/src/myapp", ShortcutName: "b"},
			},
			location: "/opt/myapp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testutil.NewTestFS()
			setupSource(t, fsys)
			reg := testutil.NewFakeRegistrar(nil)

			_, err := New(fsys, reg).Install(tt.executables, "/src", tt.location, tt.inAppFolder, types.PerUser, Options{})

			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
			assert.False(t, testutil.PathExistsFS(t, fsys, "/opt/myapp"))
			assert.Equal(t, 0, reg.Count())
		})
	}
}

func TestPendingRollbackOrder(t *testing.T) {
	journal := testutil.NewJournal()
	fsys := testutil.NewFaultyFS(testutil.NewTestFS(), journal)
	reg := testutil.NewFakeRegistrar(journal)

	require.NoError(t, fsys.MkdirAll("/opt/app", 0755))
	require.NoError(t, fsys.WriteFile("/opt/app/app", []byte("x"), 0755))
	require.NoError(t, reg.Register(types.Shortcut{Name: "app"}, types.PerUser))

	tx := newPending(fsys, reg, types.PerUser)
	tx.addDir("/opt/app")
	tx.addFile("/opt/app/app")
	tx.addShortcut("app")

	require.NoError(t, tx.rollback())

	unregister := journal.Index(testutil.OpUnregister, "app")
	removeFile := journal.Index(testutil.OpRemove, "/opt/app/app")
	removeDir := journal.Index(testutil.OpRemove, "/opt/app")
	assert.True(t, unregister < removeFile && removeFile < removeDir, "events: %v", journal.Events())

	// a second rollback and a commit after it are no-ops
	assert.NoError(t, tx.rollback())
	tx.commit()
	assert.False(t, testutil.PathExistsFS(t, fsys, "/opt/app"))
}

func TestPendingCommitKeepsEverything(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteFS(t, fsys, "/opt/app/app", "x", 0755)

	tx := newPending(fsys, testutil.NewFakeRegistrar(nil), types.PerUser)
	tx.addFile("/opt/app/app")
	tx.commit()
	tx.rollbackUnlessDone()

	assert.True(t, testutil.PathExistsFS(t, fsys, "/opt/app/app"))
}

func TestShortcutPolicy(t *testing.T) {
	p, err := ParseShortcutPolicy("all")
	require.NoError(t, err)
	assert.Equal(t, AllExecutables, p)

	p, err = ParseShortcutPolicy("")
	require.NoError(t, err)
	assert.Equal(t, AllExecutables, p)

	_, err = ParseShortcutPolicy("some")
	assert.Error(t, err)

	var decoded ShortcutPolicy
	require.NoError(t, decoded.UnmarshalText([]byte("Primary")))
	assert.Equal(t, PrimaryOnly, decoded)
	text, err := AllExecutables.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "all", string(text))

	assert.True(t, PrimaryOnly.Wants(types.Executable{Primary: true}))
	assert.False(t, PrimaryOnly.Wants(types.Executable{}))
	assert.True(t, AllExecutables.Wants(types.Executable{}))
}

type menuLocations string

func (m menuLocations) MenuDir(types.Scope) string    { return string(m) }
func (m menuLocations) DesktopDir(types.Scope) string { return "" }

func TestInstall_EntryPointCollisionWritesNothing(t *testing.T) {
	fsys := testutil.NewTestFS()
	setupSource(t, fsys)
	reg := shortcuts.NewFreedesktop(fsys, menuLocations("/menu"))

	executables := []types.Executable{
		{BinaryPath: "myapp", ShortcutName: "My App", Primary: true},
		{BinaryPath: "helper", ShortcutName: "My-App"},
	}
	result, err := New(fsys, reg).Install(executables, "/src", "/opt/x", false, types.PerUser, Options{})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
	assert.Contains(t, err.Error(), "My-App")
	assert.False(t, testutil.PathExistsFS(t, fsys, "/opt/x"))
	assert.False(t, testutil.PathExistsFS(t, fsys, "/menu/My-App.desktop"))
}
