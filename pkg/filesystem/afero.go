package filesystem

import (
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/spf13/afero"
)

// aferoFS adapts an afero filesystem to types.FS. Tests run installs and
// uninstalls against an afero.MemMapFs through it.
type aferoFS struct {
	afero.Afero
}

// NewAferoFS returns a types.FS backed by fsys
func NewAferoFS(fsys afero.Fs) types.FS {
	return &aferoFS{Afero: afero.Afero{Fs: fsys}}
}

// regularFile fails with fs.ErrInvalid when name is a directory. MemMapFs
// happily opens directories for reading, the OS does not.
func (a *aferoFS) regularFile(op, name string) error {
	info, err := a.Fs.Stat(name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return nil
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	if err := a.regularFile("read", name); err != nil {
		return nil, err
	}
	return a.Afero.ReadFile(name)
}

func (a *aferoFS) Open(name string) (io.ReadCloser, error) {
	if err := a.regularFile("open", name); err != nil {
		return nil, err
	}
	return a.Fs.Open(name)
}

func (a *aferoFS) Create(name string, perm fs.FileMode) (io.WriteCloser, error) {
	return a.Fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
}

// Symlink stores the link target as file content flagged ModeSymlink,
// since MemMapFs has no links of its own.
func (a *aferoFS) Symlink(oldname, newname string) error {
	return a.Afero.WriteFile(newname, []byte(oldname), 0777|os.ModeSymlink)
}

func (a *aferoFS) Readlink(name string) (string, error) {
	target, err := a.Afero.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(target), nil
}

// Lstat is Stat, links being plain files here
func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	return a.Fs.Stat(name)
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := a.Afero.ReadDir(name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, nil
}
