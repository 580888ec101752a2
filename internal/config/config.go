// Package config resolves server and CLI settings from defaults, an optional
// TOML or YAML file, and TODOLISTS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr       = "127.0.0.1:4567"
	DefaultStore      = "memory"
	DefaultCookieName = "todolists_session"
	DefaultSessionTTL = 30 * 24 * time.Hour
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

type Config struct {
	Addr       string   `toml:"addr" yaml:"addr"`
	Store      string   `toml:"store" yaml:"store"`
	DataDir    string   `toml:"data_dir" yaml:"data_dir"`
	CookieName string   `toml:"cookie_name" yaml:"cookie_name"`
	SessionTTL Duration `toml:"session_ttl" yaml:"session_ttl"`
	LogLevel   string   `toml:"log_level" yaml:"log_level"`
	LogFormat  string   `toml:"log_format" yaml:"log_format"`
}

// Duration accepts Go duration strings ("720h") in both file formats.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	return d.UnmarshalText([]byte(n.Value))
}

func Defaults() Config {
	return Config{
		Addr:       DefaultAddr,
		Store:      DefaultStore,
		CookieName: DefaultCookieName,
		SessionTTL: Duration{DefaultSessionTTL},
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}
}

// Load applies, in order: defaults, the config file at path (if any), the
// environment, then overrides (explicit flags). An empty path falls back to
// $TODOLISTS_CONFIG.
func Load(path string, overrides ...func(*Config)) (Config, error) {
	cfg := Defaults()

	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("TODOLISTS_CONFIG"))
	}
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	return cfg, cfg.Validate()
}

func loadFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.DecodeFile(path, cfg)
		return err
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(b, cfg)
	default:
		return errors.New("unsupported config format (expected .toml, .yaml or .yml)")
	}
}

func applyEnv(cfg *Config) error {
	set := func(k string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			*dst = v
		}
	}
	set("TODOLISTS_ADDR", &cfg.Addr)
	set("TODOLISTS_STORE", &cfg.Store)
	set("TODOLISTS_DATA_DIR", &cfg.DataDir)
	set("TODOLISTS_COOKIE_NAME", &cfg.CookieName)
	set("TODOLISTS_LOG_LEVEL", &cfg.LogLevel)
	set("TODOLISTS_LOG_FORMAT", &cfg.LogFormat)
	if v := strings.TrimSpace(os.Getenv("TODOLISTS_SESSION_TTL")); v != "" {
		if err := cfg.SessionTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("TODOLISTS_SESSION_TTL: %w", err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Store)) {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config: invalid store %q (expected memory|sqlite)", c.Store)
	}
	if strings.EqualFold(strings.TrimSpace(c.Store), "sqlite") && strings.TrimSpace(c.DataDir) == "" {
		return errors.New("config: store sqlite requires data_dir")
	}
	if strings.TrimSpace(c.CookieName) == "" {
		return errors.New("config: cookie_name is empty")
	}
	if c.SessionTTL.Duration <= 0 {
		return errors.New("config: session_ttl must be positive")
	}
	return nil
}
