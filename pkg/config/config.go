package config

import (
	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/install"
	"github.com/arthur-debert/prebuilt/pkg/types"
)

// Config is a fully layered manifest
type Config struct {
	App         AppConfig          `koanf:"app" yaml:"app" json:"app"`
	Receipts    ReceiptsConfig     `koanf:"receipts" yaml:"receipts" json:"receipts"`
	Executables []types.Executable `koanf:"executables" yaml:"executables" json:"executables"`
}

// AppConfig holds the installation settings of the application
type AppConfig struct {
	Name            string                 `koanf:"name" yaml:"name" json:"name"`
	Scope           types.Scope            `koanf:"scope" yaml:"scope" json:"scope"`
	InAppFolder     bool                   `koanf:"in_app_folder" yaml:"in_app_folder" json:"in_app_folder"`
	InstallLocation string                 `koanf:"install_location" yaml:"install_location" json:"install_location"`
	Shortcuts       install.ShortcutPolicy `koanf:"shortcuts" yaml:"shortcuts" json:"shortcuts"`
	Comment         string                 `koanf:"comment" yaml:"comment" json:"comment"`
}

// ReceiptsConfig controls install receipts
type ReceiptsConfig struct {
	Enabled bool `koanf:"enabled" yaml:"enabled" json:"enabled"`
}

// Validate checks the manifest can describe an installation
func (c *Config) Validate() error {
	if err := types.ValidateExecutables(c.Executables); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid manifest")
	}
	return nil
}

// Installation builds the installation record for the manifest. location
// is used when the manifest does not name one.
func (c *Config) Installation(location string) types.Installation {
	if c.App.InstallLocation != "" {
		location = c.App.InstallLocation
	}
	executables := make([]types.Executable, len(c.Executables))
	copy(executables, c.Executables)
	return types.Installation{
		Name:            c.App.Name,
		Executables:     executables,
		InstallLocation: location,
		Scope:           c.App.Scope,
		InAppFolder:     c.App.InAppFolder,
	}
}
