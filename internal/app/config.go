package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pocketrelay/internal/transport"
)

const (
	configFile = "config.yaml"
	envFile    = ".env"

	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home           string        `yaml:"-"` // config directory, e.g. $HOME/.pocket
	RPCURL         string        `yaml:"rpc_url"`
	Dispatchers    []string      `yaml:"dispatchers"`
	Timeout        time.Duration `yaml:"timeout"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	RateLimit      float64       `yaml:"rate_limit"` // requests per second, 0 disables
	KeyBackend     string        `yaml:"key_backend"`
	LogLevel       string        `yaml:"log_level"`
	SyslogEndpoint string        `yaml:"syslog_endpoint"`

	HTTP    *http.Client    `yaml:"-"` // optional; defaults to http.DefaultClient
	Keyring keyring.Keyring `yaml:"-"` // optional; opened on demand for the keyring backend
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig(home string) Config {
	return Config{
		Home:       home,
		Timeout:    transport.DefaultTimeout,
		KeyBackend: BackendFile,
		LogLevel:   "INFO",
	}
}

// DefaultHome is $POCKET_HOME, or ~/.pocket.
func DefaultHome() (string, error) {
	if h := os.Getenv("POCKET_HOME"); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pocket"), nil
}

// LoadConfig layers home/config.yaml, home/.env, ./.env and the environment
// over DefaultConfig. Values already in the environment win over .env files.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig(home)

	b, err := os.ReadFile(filepath.Join(home, configFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configFile, err)
		}
	}

	for _, f := range []string{filepath.Join(home, envFile), envFile} {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("POCKET_RPC_URL"); v != "" {
		c.RPCURL = v
	}
	if v := os.Getenv("POCKET_DISPATCHERS"); v != "" {
		c.Dispatchers = nil
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				c.Dispatchers = append(c.Dispatchers, d)
			}
		}
	}
	if v := os.Getenv("POCKET_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POCKET_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("POCKET_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POCKET_RETRY_ATTEMPTS: %w", err)
		}
		c.RetryAttempts = n
	}
	if v := os.Getenv("POCKET_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("POCKET_RATE_LIMIT: %w", err)
		}
		c.RateLimit = f
	}
	if v := os.Getenv("POCKET_KEY_BACKEND"); v != "" {
		c.KeyBackend = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SYSLOG_ENDPOINT"); v != "" {
		c.SyslogEndpoint = v
	}
	return nil
}

// Validate reports settings no component can run with.
func (c Config) Validate() error {
	switch {
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	case c.RetryAttempts < 0:
		return fmt.Errorf("retry_attempts must not be negative, got %d", c.RetryAttempts)
	case c.RateLimit < 0:
		return fmt.Errorf("rate_limit must not be negative, got %v", c.RateLimit)
	case c.KeyBackend != BackendFile && c.KeyBackend != BackendKeyring:
		return fmt.Errorf("key_backend must be %q or %q, got %q", BackendFile, BackendKeyring, c.KeyBackend)
	}
	return nil
}

// SaveConfig writes cfg to home/config.yaml.
func SaveConfig(cfg Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.Home, configFile), b, 0o600)
}
