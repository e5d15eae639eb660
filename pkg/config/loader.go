package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read as configuration
const EnvPrefix = "PREBUILT_"

// ManifestNames are tried in order by FindManifest
var ManifestNames = []string{paths.ManifestFileName, "prebuilt.yaml", "prebuilt.yml"}

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultConfigContent returns the embedded defaults
func DefaultConfigContent() string {
	return string(defaultConfig)
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load layers defaults, the manifest at manifestPath (skipped when empty),
// the environment and overrides, then decodes and validates the result.
// Override keys use dots, for example "app.scope".
func Load(manifestPath string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Manifest
	if manifestPath != "" {
		parser, err := parserFor(manifestPath)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(manifestPath); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read manifest %s", manifestPath).
				WithDetail(errors.DetailPath, manifestPath)
		}
		if err := k.Load(file.Provider(manifestPath), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse manifest %s", manifestPath).
				WithDetail(errors.DetailPath, manifestPath)
		}
		logger.Debug().Str("path", manifestPath).Msg("Manifest loaded")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	if cfg.App.InstallLocation != "" {
		cfg.App.InstallLocation = paths.ExpandHome(cfg.App.InstallLocation)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps PREBUILT_APP_IN_APP_FOLDER to app.in_app_folder
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported manifest format: %s", path).
			WithDetail(errors.DetailPath, path)
	}
}

// FindManifest returns the first manifest found in dir, or "" when there
// is none.
func FindManifest(dir string) string {
	for _, name := range ManifestNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
