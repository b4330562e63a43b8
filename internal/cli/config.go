package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/render/dot"
)

// Config is the file-backed CLI configuration.
type Config struct {
	Render   RenderConfig   `toml:"render" yaml:"render"`
	Cache    CacheConfig    `toml:"cache" yaml:"cache"`
	Frontend FrontendConfig `toml:"frontend" yaml:"frontend"`
}

// RenderConfig holds DOT and SVG output settings.
type RenderConfig struct {
	GraphName string `toml:"graph_name" yaml:"graph_name"`
	Detailed  bool   `toml:"detailed" yaml:"detailed"`
	RankDir   string `toml:"rankdir" yaml:"rankdir"`
	MaxLabel  int    `toml:"max_label" yaml:"max_label"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled" yaml:"disabled"`
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	Prefix   string `toml:"prefix" yaml:"prefix"`
	TTL      string `toml:"ttl" yaml:"ttl"`
}

// FrontendConfig holds Go frontend settings.
type FrontendConfig struct {
	IncludeComments bool `toml:"include_comments" yaml:"include_comments"`
}

const (
	defaultRankDir  = "TB"
	defaultCacheTTL = "168h"
	defaultPrefix   = "flowgraph:"
)

var validRankDirs = map[string]bool{"TB": true, "LR": true, "BT": true, "RL": true}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Render.GraphName == "" {
		c.Render.GraphName = dot.DefaultGraphName
	}
	if c.Render.RankDir == "" {
		c.Render.RankDir = defaultRankDir
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = defaultCacheTTL
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = defaultPrefix
	}
}

// Validate checks values that SetDefaults cannot repair.
func (c Config) Validate() error {
	if !validRankDirs[strings.ToUpper(c.Render.RankDir)] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid rankdir %q (must be TB, LR, BT or RL)", c.Render.RankDir)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	return nil
}

// TTLDuration parses the cache TTL.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cache ttl %q", c.TTL)
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return d, nil
}

// LoadConfig reads the config file at path. An empty path means the
// default location, where a missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		case err != nil:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "config %s", path)
		default:
			if err := decodeConfig(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	cfg.SetDefaults()
	cfg.Render.RankDir = strings.ToUpper(cfg.Render.RankDir)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeConfig(path string, data []byte, cfg *Config) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	return nil
}

// DefaultConfigPath returns config.toml under $XDG_CONFIG_HOME/flowgraph or
// ~/.config/flowgraph, or "" if neither can be determined.
func DefaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}
