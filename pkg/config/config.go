package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfig   = "OMD_INVENTORY_CONFIG"
	EnvLogLevel = "OMD_INVENTORY_LOG_LEVEL"
	EnvTimeout  = "OMD_INVENTORY_TIMEOUT"
)

// QueryConfig narrows the host query sent to the site.
type QueryConfig struct {
	Limit   int      `yaml:"limit"`
	Filters []string `yaml:"filters"`
}

type SSHConfig struct {
	Mode       string `yaml:"mode"`
	User       string `yaml:"user"`
	KeyFile    string `yaml:"keyFile"`
	KnownHosts string `yaml:"knownHosts"`
	Insecure   bool   `yaml:"insecure"`
	// RemotePath replaces ./tmp/run/live for locations naming no path.
	RemotePath string `yaml:"remotePath"`
	MaxOutput  int    `yaml:"maxOutput"`
}

// Config defines runtime settings for the inventory tools.
type Config struct {
	// Socket is the fallback endpoint after flags and site environment.
	Socket   string      `yaml:"socket"`
	Timeout  string      `yaml:"timeout"`
	ByIP     bool        `yaml:"byIP"`
	Indent   int         `yaml:"indent"`
	LogLevel string      `yaml:"logLevel"`
	Query    QueryConfig `yaml:"query"`
	SSH      SSHConfig   `yaml:"ssh"`
}

const (
	SSHModeNative  = "native"
	SSHModeCommand = "command"
)

// LoadConfig loads configuration from a YAML file and environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Timeout:  "10s",
		Indent:   4,
		LogLevel: "info",
		SSH:      SSHConfig{Mode: SSHModeNative},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if logLevel := os.Getenv(EnvLogLevel); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if timeout := os.Getenv(EnvTimeout); timeout != "" {
		cfg.Timeout = timeout
	}

	if _, err := time.ParseDuration(cfg.Timeout); err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
	}
	if cfg.Indent < 0 {
		return nil, fmt.Errorf("indent must not be negative: %d", cfg.Indent)
	}
	switch cfg.SSH.Mode {
	case SSHModeNative, SSHModeCommand:
	default:
		return nil, fmt.Errorf("unknown ssh mode %q", cfg.SSH.Mode)
	}

	return cfg, nil
}

// Load resolves the effective config file and loads it. An explicitly
// named file must exist; the default file is optional.
func Load(explicit string) (*Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err != nil {
		return LoadConfig("")
	}
	return LoadConfig(path)
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// DefaultConfigPath returns the default location for the CLI config file.
func DefaultConfigPath() string {
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".omd-inventory", "config.yaml")
}
