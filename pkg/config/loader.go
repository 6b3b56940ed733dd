package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "SETTLE_"
	// FileName is the config file looked up by default
	FileName = "settle.toml"
)

// LoadOptions selects the sources layered over the embedded defaults
type LoadOptions struct {
	// Files are loaded in order. When empty, DefaultSearchPaths is used and
	// missing files are skipped; listed files must exist.
	Files []string
	// Overrides are dotted keys ("retry.max_attempts") applied last.
	Overrides map[string]interface{}
}

// DefaultSearchPaths returns the config files looked up when none is given,
// lowest precedence first.
func DefaultSearchPaths() []string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return []string{
		filepath.Join(configHome, logging.AppName, FileName),
		FileName,
	}
}

// Load builds the effective configuration
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Config files
	files, err := resolveFiles(opts.Files)
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
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
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("files", len(files)).
		Int("overrides", len(opts.Overrides)).
		Msg("Configuration loaded")
	return &cfg, nil
}

// envKey maps SETTLE_RETRY__MAX_ATTEMPTS to retry.max_attempts
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func resolveFiles(explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		for _, path := range explicit {
			if _, err := os.Stat(path); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s is not readable", path).
					WithDetail("path", path)
			}
		}
		return explicit, nil
	}

	var found []string
	for _, path := range DefaultSearchPaths() {
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}
	return found, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = koanfyaml.Parser()
	default:
		return errors.Newf(errors.ErrConfigParse, "unsupported config file type: %s", path).
			WithDetail("path", path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}
