package datastore

import (
	"os"
	"time"

	"github.com/arthur-debert/prebuilt/pkg/internal/hashutil"
	"github.com/arthur-debert/prebuilt/pkg/types"
)

// ArtifactRecord is one installed file as recorded at install time
type ArtifactRecord struct {
	ShortcutName string `toml:"shortcut" json:"shortcut" yaml:"shortcut"`
	Path         string `toml:"path" json:"path" yaml:"path"`
	Size         int64  `toml:"size" json:"size" yaml:"size"`
	Checksum     string `toml:"checksum" json:"checksum" yaml:"checksum"`
}

// Receipt is the persisted record of an install
type Receipt struct {
	ID                  string             `toml:"id" json:"id" yaml:"id"`
	Name                string             `toml:"name" json:"name" yaml:"name"`
	InstallLocation     string             `toml:"install_location" json:"install_location" yaml:"install_location"`
	TargetDir           string             `toml:"target_dir" json:"target_dir" yaml:"target_dir"`
	Scope               types.Scope        `toml:"scope" json:"scope" yaml:"scope"`
	InAppFolder         bool               `toml:"in_app_folder" json:"in_app_folder" yaml:"in_app_folder"`
	State               types.State        `toml:"state" json:"state" yaml:"state"`
	RegisteredShortcuts []string           `toml:"registered_shortcuts" json:"registered_shortcuts" yaml:"registered_shortcuts"`
	InstalledAt         time.Time          `toml:"installed_at" json:"installed_at" yaml:"installed_at"`
	UpdatedAt           time.Time          `toml:"updated_at" json:"updated_at" yaml:"updated_at"`
	Executables         []types.Executable `toml:"executables" json:"executables" yaml:"executables"`
	Artifacts           []ArtifactRecord   `toml:"artifacts" json:"artifacts" yaml:"artifacts"`

	// CreatedDirs lists the directories the install created, parents first
	CreatedDirs []string `toml:"created_dirs,omitempty" json:"created_dirs,omitempty" yaml:"created_dirs,omitempty"`
}

// Installation rebuilds the installation record the receipt was written for
func (r *Receipt) Installation() types.Installation {
	executables := make([]types.Executable, len(r.Executables))
	copy(executables, r.Executables)
	return types.Installation{
		Name:            r.Name,
		Executables:     executables,
		InstallLocation: r.InstallLocation,
		Scope:           r.Scope,
		InAppFolder:     r.InAppFolder,
	}
}

// ReceiptStore manages install receipts.
type ReceiptStore interface {
	// Save writes r, assigning an ID and timestamps when they are unset.
	Save(r *Receipt) error

	// Load returns the receipt for the named application. A missing
	// receipt is an ErrReceiptNotFound error.
	Load(name string) (*Receipt, error)

	// Delete removes the receipt for the named application. Deleting a
	// receipt that does not exist is not an error.
	Delete(name string) error

	// MarkState updates the recorded lifecycle state.
	MarkState(name string, state types.State) error

	// List returns every receipt sorted by name.
	List() ([]*Receipt, error)
}

// Artifact conditions reported by Verify
const (
	ArtifactOK       = "ok"
	ArtifactMissing  = "missing"
	ArtifactModified = "modified"
)

// Verify compares the file at a.Path with what was recorded at install time
func (a ArtifactRecord) Verify(fsys types.FS) string {
	f, err := fsys.Open(a.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return ArtifactMissing
		}
		return ArtifactModified
	}
	defer func() { _ = f.Close() }()

	sum, err := hashutil.CalculateChecksum(f)
	if err != nil || (a.Checksum != "" && sum != a.Checksum) {
		return ArtifactModified
	}
	return ArtifactOK
}
