//go:build windows

package shortcuts

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"golang.org/x/sys/windows/registry"
)

// LinkExt is the extension of Windows shell links
const LinkExt = ".lnk"

const appPathsKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths\`

// Windows registers entry points as Start Menu and desktop shell links and
// as App Paths registry keys, so the program can be started by name from
// the Run dialog.
type Windows struct {
	fs        types.FS
	locations Locations
}

// NewWindows returns a registrar writing links into the directories
// locations reports.
func NewWindows(fsys types.FS, locations Locations) *Windows {
	return &Windows{fs: fsys, locations: locations}
}

func rootKey(scope types.Scope) registry.Key {
	if scope.IsGlobal() {
		return registry.LOCAL_MACHINE
	}
	return registry.CURRENT_USER
}

func (w *Windows) linkPaths(name string, scope types.Scope, primary bool) []string {
	out := []string{filepath.Join(w.locations.MenuDir(scope), FileStem(name)+LinkExt)}
	if dir := w.locations.DesktopDir(scope); dir != "" && primary {
		out = append(out, filepath.Join(dir, FileStem(name)+LinkExt))
	}
	return out
}

func (w *Windows) Register(sc types.Shortcut, scope types.Scope) error {
	logger := logging.GetLogger("shortcuts.windows")

	workingDir := sc.WorkingDir
	if workingDir == "" {
		workingDir = filepath.Dir(sc.Target)
	}

	var written []string
	undo := func() {
		for _, path := range written {
			_ = w.fs.Remove(path)
		}
	}

	for _, link := range w.linkPaths(sc.Name, scope, sc.Primary) {
		if err := w.fs.MkdirAll(filepath.Dir(link), 0755); err != nil {
			undo()
			return errors.Wrapf(err, errors.ErrShortcutRegistration, "failed to create directory for %s", link).
				WithDetail(errors.DetailPath, link)
		}
		if err := createLink(link, sc.Target, workingDir, sc.Comment); err != nil {
			undo()
			return errors.Wrapf(err, errors.ErrShortcutRegistration, "failed to create shortcut %s", link).
				WithDetail(errors.DetailPath, link)
		}
		written = append(written, link)
		logger.Debug().Str("name", sc.Name).Str("path", link).Msg("Shell link written")
	}

	key, _, err := registry.CreateKey(rootKey(scope), appPathsKey+FileStem(sc.Name)+".exe", registry.ALL_ACCESS)
	if err != nil {
		undo()
		return errors.Wrapf(err, errors.ErrShortcutRegistration, "failed to create App Paths key for %s", sc.Name)
	}
	defer func() {
		_ = key.Close()
	}()
	if err := key.SetStringValue("", sc.Target); err != nil {
		undo()
		return errors.Wrapf(err, errors.ErrShortcutRegistration, "failed to write App Paths key for %s", sc.Name)
	}
	if err := key.SetStringValue("Path", workingDir); err != nil {
		undo()
		return errors.Wrapf(err, errors.ErrShortcutRegistration, "failed to write App Paths key for %s", sc.Name)
	}
	logger.Debug().Str("name", sc.Name).Str("scope", scope.String()).Msg("App Paths key written")
	return nil
}

func (w *Windows) Unregister(name string, scope types.Scope) error {
	logger := logging.GetLogger("shortcuts.windows")

	removed := 0
	for _, link := range w.linkPaths(name, scope, true) {
		if err := w.fs.Remove(link); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, errors.ErrShortcutRemoval, "failed to remove %s", link).
				WithDetail(errors.DetailPath, link)
		}
		logger.Debug().Str("name", name).Str("path", link).Msg("Removed shell link")
		removed++
	}

	err := registry.DeleteKey(rootKey(scope), appPathsKey+FileStem(name)+".exe")
	switch {
	case err == nil:
		removed++
	case stderrors.Is(err, registry.ErrNotExist):
	default:
		return errors.Wrapf(err, errors.ErrShortcutRemoval, "failed to remove App Paths key for %s", name)
	}

	if removed == 0 {
		return NotFound(name, scope)
	}
	return nil
}

// createLink writes a .lnk file through the WScript.Shell COM object.
func createLink(linkPath, target, workingDir, description string) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		// S_FALSE means COM was already initialized on this thread
		var oleErr *ole.OleError
		if !stderrors.As(err, &oleErr) || oleErr.Code() != 1 {
			return err
		}
	}
	defer ole.CoUninitialize()

	shell, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return err
	}
	defer shell.Release()

	wshell, err := shell.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return err
	}
	defer wshell.Release()

	cs, err := oleutil.CallMethod(wshell, "CreateShortcut", linkPath)
	if err != nil {
		return err
	}
	link := cs.ToIDispatch()
	defer link.Release()

	if _, err := oleutil.PutProperty(link, "TargetPath", target); err != nil {
		return err
	}
	if _, err := oleutil.PutProperty(link, "WorkingDirectory", workingDir); err != nil {
		return err
	}
	if description != "" {
		if _, err := oleutil.PutProperty(link, "Description", description); err != nil {
			return err
		}
	}
	_, err = oleutil.CallMethod(link, "Save")
	return err
}
