package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/solitary-project/forge/pkg/errors"
	"github.com/solitary-project/forge/pkg/logging"
)

// EnvPrefix is the prefix of environment overrides
const EnvPrefix = "FORGE_"

// envKeys maps the supported FORGE_* variables to configuration keys.
// Other FORGE_* variables (FORGE_CONFIG, FORGE_CACHE_DIR, FORGE_LOG_FILE)
// are read by the packages that own them.
var envKeys = map[string]string{
	"GIT_BACKEND":     "settings.git_backend",
	"GIT_TIMEOUT":     "settings.git_timeout",
	"ON_PLUGIN_ERROR": "settings.on_plugin_error",
	"POST_PROCESS":    "settings.post_process",
	"STRICT":          "settings.strict",
	"SHARED_CACHE":    "settings.shared_cache",
}

// Format of a configuration file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

func parserFor(f Format) koanf.Parser {
	if f == FormatTOML {
		return toml.Parser()
	}
	return yaml.Parser()
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigLoad, "configuration file not found: %s", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access configuration %s", path)
	}

	user := koanf.New(".")
	if err := user.Load(file.Provider(path), parserFor(FormatFor(path))); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid configuration in %s", path).
			WithDetail("path", path)
	}

	cfg, err := build(user.Raw())
	if err != nil {
		return nil, err
	}
	cfg.Path = path

	logger.Debug().
		Str("path", path).
		Int("plugins", len(cfg.Plugins)).
		Int("tasks", len(cfg.Render)).
		Msg("Configuration loaded")
	return cfg, nil
}

// LoadBytes parses configuration content in the given format.
func LoadBytes(data []byte, format Format) (*Config, error) {
	user := koanf.New(".")
	if err := user.Load(&rawBytesProvider{bytes: data}, parserFor(format)); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid configuration")
	}
	return build(user.Raw())
}

func build(userRaw map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, yaml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load defaults")
	}

	// 2. Project file. Plugin entries accept "source" as an alias of "git".
	normalizePlugins(userRaw)
	if err := k.Load(confmap.Provider(userRaw, ""), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to merge configuration")
	}

	// 3. Environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	// 5. Validate
	cfg.trim()
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return envKeys[strings.TrimPrefix(s, EnvPrefix)]
}

func normalizePlugins(raw map[string]interface{}) {
	list, ok := raw["plugins"].([]interface{})
	if !ok {
		return
	}
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if _, hasGit := entry["git"]; !hasGit {
			if src, hasSource := entry["source"]; hasSource {
				entry["git"] = src
			}
		}
		delete(entry, "source")
	}
}

func (c *Config) trim() {
	for i := range c.Plugins {
		c.Plugins[i].Name = strings.TrimSpace(c.Plugins[i].Name)
		c.Plugins[i].Source = strings.TrimSpace(c.Plugins[i].Source)
		c.Plugins[i].Version = strings.TrimSpace(c.Plugins[i].Version)
	}
	for i := range c.Render {
		c.Render[i].Template = strings.TrimSpace(c.Render[i].Template)
		c.Render[i].Output = strings.TrimSpace(c.Render[i].Output)
	}
	if c.Variables == nil {
		c.Variables = map[string]interface{}{}
	}
}
