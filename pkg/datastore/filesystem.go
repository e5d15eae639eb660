package datastore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/internal/hashutil"
	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// ReceiptExt is the extension of receipt files
const ReceiptExt = ".toml"

type filesystemReceiptStore struct {
	fs  types.FS
	dir string
	now func() time.Time
}

// New creates a ReceiptStore keeping one file per application in dir.
func New(fs types.FS, dir string) ReceiptStore {
	return &filesystemReceiptStore{
		fs:  fs,
		dir: dir,
		now: time.Now,
	}
}

// receiptPath returns a readable and collision-free file name for name
func (s *filesystemReceiptStore) receiptPath(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s%s", b.String(), hashutil.PathKey(name)[:8], ReceiptExt))
}

func (s *filesystemReceiptStore) Save(r *Receipt) error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New(errors.ErrInvalidInput, "receipt has no application name")
	}
	now := s.now().UTC().Truncate(time.Second)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.InstalledAt.IsZero() {
		r.InstalledAt = now
	}
	r.UpdatedAt = now
	if r.State == "" {
		r.State = types.StateInstalled
	}

	data, err := toml.Marshal(r)
	if err != nil {
		return errors.Wrapf(err, errors.ErrReceiptWrite, "failed to encode receipt for %s", r.Name)
	}

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrReceiptWrite, "failed to create receipts directory").
			WithDetail(errors.DetailPath, s.dir)
	}

	// Write then rename so a crash never leaves a truncated receipt
	path := s.receiptPath(r.Name)
	tmp := path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrReceiptWrite, "failed to write receipt for %s", r.Name).
			WithDetail(errors.DetailPath, tmp)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrReceiptWrite, "failed to write receipt for %s", r.Name).
			WithDetail(errors.DetailPath, path)
	}

	logger := logging.GetLogger("datastore")
	logger.Debug().
		Str("name", r.Name).
		Str("state", r.State.String()).
		Str("path", path).
		Msg("Receipt saved")
	return nil
}

func (s *filesystemReceiptStore) Load(name string) (*Receipt, error) {
	path := s.receiptPath(name)
	r, err := s.read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrReceiptNotFound, "no receipt for %s", name).
				WithDetail(errors.DetailPath, path)
		}
		return nil, err
	}
	return r, nil
}

func (s *filesystemReceiptStore) read(path string) (*Receipt, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Receipt
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "corrupt receipt %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return &r, nil
}

func (s *filesystemReceiptStore) Delete(name string) error {
	path := s.receiptPath(name)
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrReceiptWrite, "failed to delete receipt for %s", name).
			WithDetail(errors.DetailPath, path)
	}
	return nil
}

func (s *filesystemReceiptStore) MarkState(name string, state types.State) error {
	r, err := s.Load(name)
	if err != nil {
		return err
	}
	r.State = state
	return s.Save(r)
}

func (s *filesystemReceiptStore) List() ([]*Receipt, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to read receipts directory").
			WithDetail(errors.DetailPath, s.dir)
	}

	var receipts []*Receipt
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ReceiptExt {
			continue
		}
		r, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			logger := logging.GetLogger("datastore")
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping unreadable receipt")
			continue
		}
		receipts = append(receipts, r)
	}
	sort.Slice(receipts, func(i, j int) bool {
		return receipts[i].Name < receipts[j].Name
	})
	return receipts, nil
}
