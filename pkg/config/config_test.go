package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeout != "10s" {
		t.Fatalf("expected default timeout 10s, got %q", cfg.Timeout)
	}
	if cfg.Indent != 4 {
		t.Fatalf("expected default indent 4, got %d", cfg.Indent)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.SSH.Mode != SSHModeNative {
		t.Fatalf("expected default ssh mode native, got %q", cfg.SSH.Mode)
	}
	if cfg.ByIP {
		t.Fatal("byIP must default to false")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `socket: localhost:6557
timeout: 30s
byIP: true
indent: 2
logLevel: debug
query:
  limit: 100
  filters:
    - "groups >= linux"
ssh:
  mode: command
  user: ansible
  remotePath: /omd/sites/central/tmp/run/live
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Socket != "localhost:6557" {
		t.Fatalf("expected socket localhost:6557, got %q", cfg.Socket)
	}
	if cfg.TimeoutDuration() != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", cfg.TimeoutDuration())
	}
	if !cfg.ByIP || cfg.Indent != 2 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Query.Limit != 100 || len(cfg.Query.Filters) != 1 {
		t.Fatalf("unexpected query config: %+v", cfg.Query)
	}
	if cfg.SSH.Mode != SSHModeCommand || cfg.SSH.User != "ansible" {
		t.Fatalf("unexpected ssh config: %+v", cfg.SSH)
	}
	if cfg.SSH.RemotePath != "/omd/sites/central/tmp/run/live" {
		t.Fatalf("remote path not parsed: %+v", cfg.SSH)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvTimeout, "3s")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("env log level not applied: %q", cfg.LogLevel)
	}
	if cfg.TimeoutDuration() != 3*time.Second {
		t.Fatalf("env timeout not applied: %v", cfg.TimeoutDuration())
	}
}

func TestLoadConfigInvalidTimeout(t *testing.T) {
	t.Setenv(EnvTimeout, "not-a-duration")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestLoadConfigInvalidSSHMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ssh:\n  mode: telnet\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown ssh mode")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadOptionalDefaultFile(t *testing.T) {
	// Point the default path into an empty directory; Load must fall
	// back to pure defaults without error.
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "absent.yaml"))
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeout != "10s" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestDefaultConfigPathEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/omd-inventory.yaml")
	if got := DefaultConfigPath(); got != "/etc/omd-inventory.yaml" {
		t.Fatalf("expected env path, got %q", got)
	}
}
