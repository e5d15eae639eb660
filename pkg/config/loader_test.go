package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/install"
	"github.com/arthur-debert/prebuilt/pkg/paths"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlManifest = `
[app]
name = "MyApp"
install_location = "/opt/myapp"

[[executables]]
binary = "app.exe"
shortcut = "MyApp"
primary = true

[[executables]]
binary = "tools/helper.exe"
shortcut = "MyApp Helper"
`

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaultsOnly(t *testing.T) {
	// executables are required, so defaults alone never validate
	_, err := Load("", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadTOMLManifest(t *testing.T) {
	cfg, err := Load(writeManifest(t, "prebuilt.toml", tomlManifest), nil)
	require.NoError(t, err)

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.Equal(t, "/opt/myapp", cfg.App.InstallLocation)
	assert.Equal(t, types.PerUser, cfg.App.Scope)
	assert.False(t, cfg.App.InAppFolder)
	assert.Equal(t, install.AllExecutables, cfg.App.Shortcuts)
	assert.True(t, cfg.Receipts.Enabled)

	require.Len(t, cfg.Executables, 2)
	assert.Equal(t, types.Executable{BinaryPath: "app.exe", ShortcutName: "MyApp", Primary: true}, cfg.Executables[0])
	assert.Equal(t, "tools/helper.exe", cfg.Executables[1].BinaryPath)
	assert.False(t, cfg.Executables[1].Primary)
}

func TestLoadYAMLManifest(t *testing.T) {
	content := `
app:
  name: MyApp
  scope: all-users
  in_app_folder: true
  shortcuts: primary
executables:
  - binary: app.exe
    shortcut: MyApp
    primary: true
`
	cfg, err := Load(writeManifest(t, "prebuilt.yml", content), nil)
	require.NoError(t, err)

	assert.Equal(t, types.AllUsers, cfg.App.Scope)
	assert.True(t, cfg.App.InAppFolder)
	assert.Equal(t, install.PrimaryOnly, cfg.App.Shortcuts)
	require.Len(t, cfg.Executables, 1)
}

func TestLoadLayering(t *testing.T) {
	path := writeManifest(t, "prebuilt.toml", tomlManifest)

	t.Setenv("PREBUILT_APP_SCOPE", "all-users")
	t.Setenv("PREBUILT_APP_IN_APP_FOLDER", "true")
	t.Setenv("PREBUILT_APP_COMMENT", "from env")

	cfg, err := Load(path, map[string]interface{}{
		"app.comment":          "from flags",
		"app.install_location": "/srv/apps",
	})
	require.NoError(t, err)

	assert.Equal(t, types.AllUsers, cfg.App.Scope)
	assert.True(t, cfg.App.InAppFolder)
	assert.Equal(t, "from flags", cfg.App.Comment)
	assert.Equal(t, "/srv/apps", cfg.App.InstallLocation)
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := paths.GetHomeDirectory()
	require.NoError(t, err)

	cfg, err := Load(writeManifest(t, "prebuilt.toml", tomlManifest), map[string]interface{}{
		"app.install_location": "~/apps",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "apps"), cfg.App.InstallLocation)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "prebuilt.toml"), nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := Load(writeManifest(t, "prebuilt.ini", "x=1"), nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := Load(writeManifest(t, "prebuilt.toml", "[app\nname ="), nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("unknown scope", func(t *testing.T) {
		_, err := Load(writeManifest(t, "prebuilt.toml", tomlManifest), map[string]interface{}{
			"app.scope": "galaxy",
		})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("duplicate shortcut names", func(t *testing.T) {
		content := `
[[executables]]
binary = "a.exe"
shortcut = "Same"

[[executables]]
binary = "b.exe"
shortcut = "Same"
`
		_, err := Load(writeManifest(t, "prebuilt.toml", content), nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})
}

func TestFindManifest(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindManifest(dir))

	yml := filepath.Join(dir, "prebuilt.yml")
	require.NoError(t, os.WriteFile(yml, []byte("app: {}\n"), 0644))
	assert.Equal(t, yml, FindManifest(dir))

	// TOML wins over YAML
	tml := filepath.Join(dir, "prebuilt.toml")
	require.NoError(t, os.WriteFile(tml, []byte(""), 0644))
	assert.Equal(t, tml, FindManifest(dir))
}

func TestInstallation(t *testing.T) {
	cfg := &Config{
		App:         AppConfig{Name: "MyApp", Scope: types.AllUsers, InAppFolder: true},
		Executables: []types.Executable{{BinaryPath: "app.exe", ShortcutName: "MyApp", Primary: true}},
	}

	inst := cfg.Installation("/opt")
	assert.Equal(t, "/opt", inst.InstallLocation)
	assert.Equal(t, filepath.Join("/opt", "MyApp"), inst.TargetDir())
	assert.True(t, inst.IsGlobalInstall())

	cfg.App.InstallLocation = "/srv"
	assert.Equal(t, "/srv", cfg.Installation("/opt").InstallLocation)
}

func TestGenerateManifest(t *testing.T) {
	content := GenerateManifest("MyApp", "app.exe")
	assert.Contains(t, content, `name = "MyApp"`)
	assert.Contains(t, content, `# scope = "user"`)
	assert.Contains(t, content, "[[executables]]")

	path := writeManifest(t, "prebuilt.toml", content)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "MyApp", cfg.App.Name)
	require.Len(t, cfg.Executables, 1)
	assert.True(t, cfg.Executables[0].Primary)
}
