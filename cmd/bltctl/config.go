package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/basslinehq/bltctl/internal/client"
)

const (
	envHost = "BLT_HOST"
	envPort = "BLT_PORT"
)

type fileConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	DialTimeout  string `toml:"dial_timeout"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
	LogLevel     string `toml:"log_level"`
}

// loadConfig layers a TOML file over the client defaults. An empty path
// keeps the defaults. The log level rides alongside because it belongs to
// the CLI, not the core config.
func loadConfig(path string) (client.Config, string, error) {
	cfg := client.DefaultConfig()
	if path == "" {
		return cfg, "", nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return client.Config{}, "", fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("host") {
		if host := strings.TrimSpace(raw.Host); host != "" {
			cfg.Host = host
		}
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("dial_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DialTimeout))
		if err != nil {
			return client.Config{}, "", fmt.Errorf("parse dial_timeout: %w", err)
		}
		cfg.DialTimeout = d
	}
	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return client.Config{}, "", fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}
	if meta.IsDefined("write_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.WriteTimeout))
		if err != nil {
			return client.Config{}, "", fmt.Errorf("parse write_timeout: %w", err)
		}
		cfg.WriteTimeout = d
	}

	return cfg, strings.TrimSpace(raw.LogLevel), nil
}

// applyEnvOverrides layers BLT_HOST/BLT_PORT over the file config. Flags
// beat both; the core itself never touches the environment.
func applyEnvOverrides(cfg *client.Config) {
	if host := strings.TrimSpace(os.Getenv(envHost)); host != "" {
		cfg.Host = host
	}
	if rawPort := strings.TrimSpace(os.Getenv(envPort)); rawPort != "" {
		if port, err := strconv.Atoi(rawPort); err == nil {
			cfg.Port = port
		}
	}
}
