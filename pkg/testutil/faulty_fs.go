package testutil

import (
	"io"
	"io/fs"

	"github.com/arthur-debert/prebuilt/pkg/types"
)

// FaultyFS wraps a types.FS. Every call first asks Fail whether it should
// fail; a non-nil error is returned without reaching the wrapped
// filesystem. Mutating calls that go through are recorded in Journal.
type FaultyFS struct {
	types.FS
	Journal *Journal
	Fail    func(op, path string) error
}

// NewFaultyFS wraps inner with no faults configured
func NewFaultyFS(inner types.FS, journal *Journal) *FaultyFS {
	return &FaultyFS{FS: inner, Journal: journal}
}

// FailOn returns a Fail hook that returns err for op on exactly path.
func FailOn(op, path string, err error) func(string, string) error {
	return func(gotOp, gotPath string) error {
		if gotOp == op && gotPath == path {
			return err
		}
		return nil
	}
}

// FailAfter returns a Fail hook that lets n calls of op through and fails
// every later one with err.
func FailAfter(op string, n int, err error) func(string, string) error {
	seen := 0
	return func(gotOp, _ string) error {
		if gotOp != op {
			return nil
		}
		seen++
		if seen > n {
			return err
		}
		return nil
	}
}

func (f *FaultyFS) check(op, path string) error {
	if f.Fail == nil {
		return nil
	}
	return f.Fail(op, path)
}

func (f *FaultyFS) Open(name string) (io.ReadCloser, error) {
	if err := f.check("open", name); err != nil {
		return nil, err
	}
	return f.FS.Open(name)
}

func (f *FaultyFS) Create(name string, perm fs.FileMode) (io.WriteCloser, error) {
	if err := f.check(OpCreate, name); err != nil {
		return nil, err
	}
	f.Journal.Record(OpCreate, name)
	return f.FS.Create(name, perm)
}

func (f *FaultyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWrite, name); err != nil {
		return err
	}
	f.Journal.Record(OpWrite, name)
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdir, path); err != nil {
		return err
	}
	f.Journal.Record(OpMkdir, path)
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	f.Journal.Record(OpRemove, name)
	return f.FS.Remove(name)
}

func (f *FaultyFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	f.Journal.Record(OpRemoveAll, path)
	return f.FS.RemoveAll(path)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}
	f.Journal.Record(OpRename, oldpath)
	return f.FS.Rename(oldpath, newpath)
}
