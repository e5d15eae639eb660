package uninstall

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/filesystem"
	"github.com/arthur-debert/prebuilt/pkg/testutil"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	root     string
	location string
	journal  *testutil.Journal
	fs       *testutil.FaultyFS
	reg      *testutil.FakeRegistrar
}

// newFixture lays out an installed app under a temp root on the OS
// filesystem, with its shortcuts registered for the current user.
func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	location := filepath.Join(root, "opt", "myapp")
	testutil.CreateFile(t, location, "app.exe", "app binary")
	testutil.CreateFile(t, location, "data/settings.ini", "theme=dark")

	journal := testutil.NewJournal()
	reg := testutil.NewFakeRegistrar(journal)
	for _, name := range names {
		require.NoError(t, reg.Register(types.Shortcut{Name: name, Target: filepath.Join(location, "app.exe")}, types.PerUser))
	}
	return &fixture{
		root:     root,
		location: location,
		journal:  journal,
		fs:       testutil.NewFaultyFS(filesystem.NewOS(), journal),
		reg:      reg,
	}
}

func (f *fixture) uninstaller() *Uninstaller {
	return New(f.fs, f.reg)
}

func TestUninstallApp_RemovesShortcutsThenFiles(t *testing.T) {
	f := newFixture(t, "MyApp", "MyApp Helper")

	result, err := f.uninstaller().UninstallApp([]string{"MyApp", "MyApp Helper"}, f.location, types.PerUser)
	require.NoError(t, err)

	assert.Equal(t, types.StateRemoved, result.State)
	assert.Equal(t, []string{"MyApp", "MyApp Helper"}, result.RemovedShortcuts)
	assert.Empty(t, result.MissingShortcuts)
	testutil.AssertNoFile(t, f.location)
	assert.Equal(t, 0, f.reg.Count())

	lastUnregister := f.journal.LastOf(testutil.OpUnregister)
	firstDelete := f.journal.FirstOf(testutil.OpRemoveAll, testutil.OpRemove, testutil.OpRename)
	require.NotEqual(t, -1, firstDelete)
	assert.Less(t, lastUnregister, firstDelete, "events: %v", f.journal.Events())
}

func TestUninstallApp_ToleratesMissingShortcut(t *testing.T) {
	f := newFixture(t, "MyApp")

	result, err := f.uninstaller().UninstallApp([]string{"MyApp", "Gone"}, f.location, types.PerUser)
	require.NoError(t, err)

	assert.Equal(t, types.StateRemoved, result.State)
	assert.Equal(t, []string{"Gone"}, result.MissingShortcuts)
	testutil.AssertNoFile(t, f.location)
}

func TestUninstallApp_WrongScopeCountsAsMissing(t *testing.T) {
	f := newFixture(t, "MyApp")

	result, err := f.uninstaller().UninstallApp([]string{"MyApp"}, f.location, types.AllUsers)
	require.NoError(t, err)

	assert.Equal(t, []string{"MyApp"}, result.MissingShortcuts)
	// the per-user registration is untouched by an all-users uninstall
	assert.True(t, f.reg.Has("MyApp", types.PerUser))
}

func TestUninstallApp_UnregisterFailureLeavesFiles(t *testing.T) {
	f := newFixture(t, "MyApp", "Other")
	f.reg.UnregisterFunc = func(name string, _ types.Scope) error {
		if name == "Other" {
			return fmt.Errorf("registry locked")
		}
		return nil
	}
	before := testutil.Snapshot(t, f.location)

	result, err := f.uninstaller().UninstallApp([]string{"MyApp", "Other"}, f.location, types.PerUser)

	assert.True(t, errors.IsErrorCode(err, errors.ErrShortcutRemoval))
	assert.Equal(t, types.StateDegraded, result.State)
	assert.Equal(t, types.StateDegraded.String(), errors.GetDetailString(err, errors.DetailState))
	assert.Equal(t, before, testutil.Snapshot(t, f.location))
	assert.Equal(t, -1, f.journal.FirstOf(testutil.OpRemoveAll))
}

func TestUninstallApp_DeleteFailure(t *testing.T) {
	f := newFixture(t, "MyApp")
	locked := fmt.Errorf("file in use")
	f.fs.Fail = testutil.FailOn(testutil.OpRemoveAll, f.location, locked)

	result, err := f.uninstaller().UninstallApp([]string{"MyApp"}, f.location, types.PerUser)

	assert.True(t, errors.IsErrorCode(err, errors.ErrDeleteFailed))
	assert.ErrorIs(t, err, locked)
	assert.Equal(t, types.StateDegraded, result.State)
	assert.False(t, f.reg.Has("MyApp", types.PerUser))
	assert.True(t, testutil.DirExists(t, f.location))
}

func TestUninstallApp_InvalidLocation(t *testing.T) {
	for _, location := range []string{"", "relative/path", string(filepath.Separator)} {
		t.Run(fmt.Sprintf("%q", location), func(t *testing.T) {
			reg := testutil.NewFakeRegistrar(nil)
			require.NoError(t, reg.Register(types.Shortcut{Name: "MyApp"}, types.PerUser))

			result, err := New(testutil.NewTestFS(), reg).UninstallApp([]string{"MyApp"}, location, types.PerUser)

			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
			assert.Equal(t, types.StateInstalled, result.State)
			assert.True(t, reg.Has("MyApp", types.PerUser))
		})
	}
}

func TestMoveApp_ArchivesByteIdentical(t *testing.T) {
	f := newFixture(t, "MyApp")
	before := testutil.Snapshot(t, f.location)
	save := filepath.Join(f.root, "backup", "myapp")

	result, err := f.uninstaller().MoveApp([]string{"MyApp"}, f.location, save, types.PerUser)
	require.NoError(t, err)

	assert.Equal(t, types.StateArchived, result.State)
	assert.Equal(t, save, result.SaveLocation)
	testutil.AssertNoFile(t, f.location)
	assert.Equal(t, before, testutil.Snapshot(t, save))
	assert.False(t, f.reg.Has("MyApp", types.PerUser))

	assert.Less(t, f.journal.LastOf(testutil.OpUnregister), f.journal.FirstOf(testutil.OpRename, testutil.OpRemoveAll))
}

func TestMoveApp_CrossDevice(t *testing.T) {
	f := newFixture(t, "MyApp")
	before := testutil.Snapshot(t, f.location)
	save := filepath.Join(f.root, "backup", "myapp")
	f.fs.Fail = testutil.FailOn(testutil.OpRename, f.location, filesystem.NewCrossDeviceError(f.location, save))

	result, err := f.uninstaller().MoveApp([]string{"MyApp"}, f.location, save, types.PerUser)
	require.NoError(t, err)

	assert.Equal(t, types.StateArchived, result.State)
	testutil.AssertNoFile(t, f.location)
	assert.Equal(t, before, testutil.Snapshot(t, save))
}

func TestMoveApp_MoveFailure(t *testing.T) {
	f := newFixture(t, "MyApp")
	before := testutil.Snapshot(t, f.location)
	save := filepath.Join(f.root, "backup", "myapp")
	f.fs.Fail = testutil.FailOn(testutil.OpRename, f.location, os.ErrPermission)

	result, err := f.uninstaller().MoveApp([]string{"MyApp"}, f.location, save, types.PerUser)

	assert.True(t, errors.IsErrorCode(err, errors.ErrMoveFailed))
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, types.StateDegraded, result.State)
	assert.Equal(t, before, testutil.Snapshot(t, f.location))
	testutil.AssertNoFile(t, save)
	testutil.AssertNoFile(t, filepath.Dir(save))
}

func TestMoveApp_MoveFailureKeepsExistingSaveParent(t *testing.T) {
	f := newFixture(t, "MyApp")
	parent := filepath.Join(f.root, "backup")
	require.NoError(t, os.MkdirAll(parent, 0755))
	save := filepath.Join(parent, "nested", "myapp")
	f.fs.Fail = testutil.FailOn(testutil.OpRename, f.location, os.ErrPermission)

	_, err := f.uninstaller().MoveApp([]string{"MyApp"}, f.location, save, types.PerUser)

	assert.True(t, errors.IsErrorCode(err, errors.ErrMoveFailed))
	testutil.AssertNoFile(t, filepath.Join(parent, "nested"))
	assert.DirExists(t, parent)
}

func TestMoveApp_SourceRemovalFailureIsDeleteFailed(t *testing.T) {
	f := newFixture(t, "MyApp")
	save := filepath.Join(f.root, "backup", "myapp")
	f.fs.Fail = func(op, path string) error {
		switch {
		case op == testutil.OpRename:
			return filesystem.NewCrossDeviceError(f.location, save)
		case op == testutil.OpRemoveAll && path == f.location:
			return fmt.Errorf("file in use")
		}
		return nil
	}

	result, err := f.uninstaller().MoveApp([]string{"MyApp"}, f.location, save, types.PerUser)

	assert.True(t, errors.IsErrorCode(err, errors.ErrDeleteFailed))
	assert.Equal(t, types.StateDegraded, result.State)
	assert.True(t, testutil.FileExists(t, filepath.Join(save, "app.exe")))
	assert.True(t, testutil.FileExists(t, filepath.Join(f.location, "app.exe")))
}

func TestMoveApp_Preflight(t *testing.T) {
	tests := []struct {
		name  string
		save  func(f *fixture) string
		setup func(t *testing.T, f *fixture)
		code  errors.ErrorCode
	}{
		{
			name: "empty save location",
			save: func(*fixture) string { return "" },
			code: errors.ErrInvalidInput,
		},
		{
			name: "relative save location",
			save: func(*fixture) string { return "backup/myapp" },
			code: errors.ErrInvalidInput,
		},
		{
			name: "save location inside install location",
			save: func(f *fixture) string { return filepath.Join(f.location, "old") },
			code: errors.ErrInvalidInput,
		},
		{
			name: "save location exists",
			save: func(f *fixture) string { return filepath.Join(f.root, "backup") },
			setup: func(t *testing.T, f *fixture) {
				testutil.CreateFile(t, f.root, "backup/keep.txt", "keep")
			},
			code: errors.ErrTargetConflict,
		},
		{
			name: "nothing installed",
			save: func(f *fixture) string { return filepath.Join(f.root, "backup") },
			setup: func(t *testing.T, f *fixture) {
				require.NoError(t, os.RemoveAll(f.location))
			},
			code: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "MyApp")
			if tt.setup != nil {
				tt.setup(t, f)
			}

			result, err := f.uninstaller().MoveApp([]string{"MyApp"}, f.location, tt.save(f), types.PerUser)

			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.Equal(t, types.StateInstalled, result.State)
			assert.True(t, f.reg.Has("MyApp", types.PerUser), "shortcuts must survive a failed preflight")
		})
	}
}

func TestIsWithin(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "opt", "myapp")
	assert.True(t, isWithin(base, base))
	assert.True(t, isWithin(filepath.Join(base, "sub"), base))
	assert.False(t, isWithin(filepath.Join(string(filepath.Separator), "opt", "myapp2"), base))
	assert.False(t, isWithin(filepath.Join(string(filepath.Separator), "backup", "myapp"), base))
	assert.False(t, isWithin(filepath.Join(string(filepath.Separator), "opt"), base))
}
