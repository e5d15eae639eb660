package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/prebuilt/pkg/internal/hashutil"
	"github.com/arthur-debert/prebuilt/pkg/types"
)

// CopyStats describes a file written by CopyFile.
type CopyStats struct {
	Size     int64
	Checksum string
}

// CopyFile streams src to dst on fsys, keeping the permission bits of src.
// The checksum is computed over the bytes written. The parent directory of
// dst must already exist.
func CopyFile(fsys types.FS, src, dst string) (CopyStats, error) {
	info, err := fsys.Stat(src)
	if err != nil {
		return CopyStats{}, err
	}
	if info.IsDir() {
		return CopyStats{}, fmt.Errorf("%s is a directory", src)
	}

	in, err := fsys.Open(src)
	if err != nil {
		return CopyStats{}, err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := fsys.Create(dst, info.Mode().Perm())
	if err != nil {
		return CopyStats{}, err
	}

	h := hashutil.New()
	size, err := io.Copy(io.MultiWriter(out, h), in)
	if err != nil {
		_ = out.Close()
		return CopyStats{}, err
	}
	if err := out.Close(); err != nil {
		return CopyStats{}, err
	}

	return CopyStats{Size: size, Checksum: hashutil.Format(h.Sum(nil))}, nil
}

// CopyTree copies the directory tree rooted at src to dst. Filesystems that
// implement types.TreeCopier do the copy themselves, the rest are walked
// entry by entry.
func CopyTree(fsys types.FS, src, dst string) error {
	if tc, ok := fsys.(types.TreeCopier); ok {
		return tc.CopyTree(src, dst)
	}
	return copyTree(fsys, src, dst)
}

func copyTree(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		_, err := CopyFile(fsys, src, dst)
		return err
	}

	if err := fsys.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := fsys.Readlink(from)
			if err != nil {
				return err
			}
			if err := fsys.Symlink(target, to); err != nil {
				return err
			}
			continue
		}
		if err := copyTree(fsys, from, to); err != nil {
			return err
		}
	}
	return nil
}
