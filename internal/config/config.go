package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/unibot/cli/internal/api"
)

// EnvPrefix is the prefix of environment overrides, e.g. UNIBOT_BASE_URL.
const EnvPrefix = "UNIBOT"

// Config holds CLI configuration stored at ~/.unibot/config. It never holds
// credentials or FAQ data.
type Config struct {
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	LogLevel  string        `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string        `yaml:"log_format" mapstructure:"log_format"`
	LogFile   string        `yaml:"log_file" mapstructure:"log_file"`
	Theme     string        `yaml:"theme" mapstructure:"theme"`
}

// Dir returns the directory holding the config and log file.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".unibot")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		BaseURL:   api.DefaultBaseURL,
		Timeout:   api.DefaultTimeout,
		LogLevel:  "info",
		LogFormat: "json",
		LogFile:   filepath.Join(Dir(), "unibot.log"),
		Theme:     "dark",
	}
}

// Load layers defaults, the config file (if present) and UNIBOT_*
// environment variables. A missing file is not an error; a file with open
// permissions or invalid contents is.
func Load() (*Config, error) {
	cfg, err := read(true)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile layers only defaults and the config file. It is the starting
// point for edits that are written back with Save, so environment
// overrides never leak into the file. The result is not validated.
func LoadFile() (*Config, error) {
	return read(false)
}

func read(withEnv bool) (*Config, error) {
	def := Default()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("theme", def.Theme)
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	path := Path()
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if perm := info.Mode().Perm(); perm != 0600 {
			return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		var probe map[string]any
		if err := yaml.Unmarshal(data, &probe); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("stat config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields the client cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("config missing base_url")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("config base_url must start with http:// or https://")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("config base_url: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("config base_url has no host")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config timeout must be positive")
	}
	return nil
}

// MarshalYAML writes the timeout in duration syntax ("15s") rather than
// nanoseconds.
func (c Config) MarshalYAML() (any, error) {
	return struct {
		BaseURL   string `yaml:"base_url"`
		Timeout   string `yaml:"timeout"`
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
		LogFile   string `yaml:"log_file"`
		Theme     string `yaml:"theme"`
	}{
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout.String(),
		LogLevel:  c.LogLevel,
		LogFormat: c.LogFormat,
		LogFile:   c.LogFile,
		Theme:     c.Theme,
	}, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
