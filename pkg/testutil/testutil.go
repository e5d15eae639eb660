package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/prebuilt/pkg/types"
)

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	// Create parent directories if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}

	return path
}

// WriteFS writes content to path on fsys, creating parents as needed.
func WriteFS(t *testing.T, fsys types.FS, path, content string, perm fs.FileMode) {
	t.Helper()

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := fsys.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// FileExists checks if a file exists and is not a directory.
func FileExists(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

// PathExistsFS reports whether path exists on fsys
func PathExistsFS(t *testing.T, fsys types.FS, path string) bool {
	t.Helper()

	_, err := fsys.Stat(path)
	return err == nil
}

// ReadFile reads the content of a file and returns it as a string.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	return string(content)
}

// AssertNoFile checks that a path does not exist.
func AssertNoFile(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File %s exists but should not", path)
	}
}

// Snapshot maps every entry below root to its content. Directories map to
// the empty string with a trailing separator on the key. A missing root
// gives an empty map.
func Snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	return SnapshotFS(t, osReader{}, root)
}

// SnapshotFS is Snapshot for any filesystem.
func SnapshotFS(t *testing.T, fsys TreeReader, root string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	if _, err := fsys.Stat(root); os.IsNotExist(err) {
		return out
	}
	var walk func(dir, rel string)
	walk = func(dir, rel string) {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			t.Fatalf("Failed to read dir %s: %v", dir, err)
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			key := filepath.Join(rel, entry.Name())
			if entry.IsDir() {
				out[key+string(filepath.Separator)] = ""
				walk(full, key)
				continue
			}
			data, err := fsys.ReadFile(full)
			if err != nil {
				t.Fatalf("Failed to read %s: %v", full, err)
			}
			out[key] = string(data)
		}
	}
	walk(root, "")
	return out
}

// TreeReader is the read side of types.FS used by SnapshotFS.
type TreeReader interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}

type osReader struct{}

func (osReader) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }
func (osReader) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (osReader) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }

// SkipOnWindows skips the test if running on Windows.
func SkipOnWindows(t *testing.T) {
	t.Helper()

	if os.PathSeparator == '\\' {
		t.Skip("Test not supported on Windows")
	}
}
