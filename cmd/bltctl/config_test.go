package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigEmptyPathKeepsDefaults(t *testing.T) {
	cfg, logLevel, err := loadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Host != "localhost" || cfg.Port != 9000 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if logLevel != "" {
		t.Fatalf("unexpected log level: %q", logLevel)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
host = "blt.internal"
port = 9100
dial_timeout = "2s"
read_timeout = "30s"
log_level = "debug"
`)
	cfg, logLevel, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Host != "blt.internal" {
		t.Fatalf("unexpected host: %q", cfg.Host)
	}
	if cfg.Port != 9100 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	if cfg.DialTimeout != 2*time.Second {
		t.Fatalf("unexpected dial timeout: %v", cfg.DialTimeout)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Fatalf("unexpected read timeout: %v", cfg.ReadTimeout)
	}
	// Keys the file omits keep their defaults.
	if cfg.WriteTimeout != 15*time.Second {
		t.Fatalf("unexpected write timeout: %v", cfg.WriteTimeout)
	}
	if logLevel != "debug" {
		t.Fatalf("unexpected log level: %q", logLevel)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `dial_timeout = "soon"`)
	if _, _, err := loadConfig(path); err == nil {
		t.Fatalf("expected duration parse failure")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(envHost, "env.example")
	t.Setenv(envPort, "9200")

	cfg, _, err := loadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	applyEnvOverrides(&cfg)
	if cfg.Host != "env.example" || cfg.Port != 9200 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestApplyEnvOverridesIgnoresBadPort(t *testing.T) {
	t.Setenv(envPort, "not-a-port")

	cfg, _, err := loadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	applyEnvOverrides(&cfg)
	if cfg.Port != 9000 {
		t.Fatalf("bad port should be ignored: %+v", cfg)
	}
}

func TestSplitCommandCapsFields(t *testing.T) {
	parts := splitCommand(`write greeting {"msg": "hello world"}`, 3)
	if len(parts) != 3 {
		t.Fatalf("unexpected parts: %v", parts)
	}
	if parts[2] != `{"msg": "hello world"}` {
		t.Fatalf("value field lost whitespace: %q", parts[2])
	}
}
