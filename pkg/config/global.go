package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override global settings
const EnvPrefix = "HOMIE_"

// envKeySeparator separates key segments in environment overrides
const envKeySeparator = "__"

// GlobalConfig is the user-level configuration shared by every repository
type GlobalConfig struct {
	Settings Settings          `koanf:"settings"`
	Vars     map[string]string `koanf:"vars"`
	Env      EnvConfig         `koanf:"env"`

	// Source is the file that was loaded, empty when none existed
	Source string `koanf:"-"`
}

// Settings controls engine behavior
type Settings struct {
	// BackupSuffix is a strftime format appended to backed-up targets
	BackupSuffix string `koanf:"backup_suffix"`

	// ReplaceablePaths lists roots whose symlinks homie may overwrite
	ReplaceablePaths []string `koanf:"replaceable_paths"`
}

// EnvConfig controls which environment variables reach templates
type EnvConfig struct {
	PassThrough []string `koanf:"pass_through"`
	Files       []string `koanf:"files"`
}

// LoadGlobal builds the global configuration. A missing file is not an error.
func LoadGlobal(path string) (*GlobalConfig, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultGlobalConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load built-in defaults")
	}

	source := ""
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
					WithDetail("path", path)
			}
			source = path
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", path).
				WithDetail("path", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg GlobalConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode global configuration")
	}
	cfg.Source = source
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("source", source).
		Int("vars", len(cfg.Vars)).
		Int("replaceable_paths", len(cfg.Settings.ReplaceablePaths)).
		Msg("Loaded global configuration")
	return &cfg, nil
}

// DefaultGlobal returns the built-in defaults with no user file applied
func DefaultGlobal() *GlobalConfig {
	return &GlobalConfig{
		Settings: Settings{BackupSuffix: ".backup.%Y%m%d%H%M%S"},
		Vars:     map[string]string{},
	}
}

// Validate checks invariants the loaders cannot express
func (c *GlobalConfig) Validate() error {
	if strings.TrimSpace(c.Settings.BackupSuffix) == "" {
		return errors.New(errors.ErrConfigValid, "settings.backup_suffix cannot be empty")
	}
	for _, p := range c.Settings.ReplaceablePaths {
		if strings.TrimSpace(p) == "" {
			return errors.New(errors.ErrConfigValid, "settings.replaceable_paths contains an empty entry")
		}
	}
	return nil
}

func (c *GlobalConfig) normalize() {
	if c.Vars == nil {
		c.Vars = map[string]string{}
	}
	for i, p := range c.Settings.ReplaceablePaths {
		c.Settings.ReplaceablePaths[i] = paths.ExpandHome(strings.TrimSpace(p))
	}
	for i, f := range c.Env.Files {
		c.Env.Files[i] = paths.ExpandHome(strings.TrimSpace(f))
	}
}

// envKey maps HOMIE_SETTINGS__BACKUP_SUFFIX to settings.backup_suffix.
// Variables without a separator (HOMIE_CONFIG, HOMIE_REPOS_DIR) are not
// configuration keys and are dropped.
func envKey(name string) string {
	trimmed := strings.TrimPrefix(name, EnvPrefix)
	if !strings.Contains(trimmed, envKeySeparator) {
		return ""
	}
	parts := strings.Split(strings.ToLower(trimmed), envKeySeparator)
	for _, p := range parts {
		if p == "" {
			return ""
		}
	}
	return strings.Join(parts, ".")
}
