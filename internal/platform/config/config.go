package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultIdleThreshold  = 5 * time.Minute
	defaultCheckInterval  = 30 * time.Second
	defaultMinSessionSecs = 10
)

type Config struct {
	RootPath      string
	DBPath        string
	PluginsPath   string
	IdleThreshold time.Duration
	CheckInterval time.Duration
	MinSession    time.Duration
}

type fileConfig struct {
	IdleThresholdMinutes int `yaml:"idle_threshold_minutes"`
	CheckIntervalSeconds int `yaml:"check_interval_seconds"`
	MinSessionSeconds    int `yaml:"min_session_seconds"`
}

// New builds the runtime config for a library root, overlaying
// .leaflog/config.yaml on top of the defaults when it exists.
func New(rootPath string) (Config, error) {
	if rootPath == "" {
		return Config{}, fmt.Errorf("library root path is required")
	}
	cfg := Config{
		RootPath:      rootPath,
		DBPath:        filepath.Join(rootPath, ".leaflog", "leaflog.db"),
		PluginsPath:   rootPath,
		IdleThreshold: defaultIdleThreshold,
		CheckInterval: defaultCheckInterval,
		MinSession:    defaultMinSessionSecs * time.Second,
	}

	raw, err := os.ReadFile(filepath.Join(rootPath, ".leaflog", "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if fc.IdleThresholdMinutes > 0 {
		cfg.IdleThreshold = time.Duration(fc.IdleThresholdMinutes) * time.Minute
	}
	if fc.CheckIntervalSeconds > 0 {
		cfg.CheckInterval = time.Duration(fc.CheckIntervalSeconds) * time.Second
	}
	if fc.MinSessionSeconds > 0 {
		cfg.MinSession = time.Duration(fc.MinSessionSeconds) * time.Second
	}
	return cfg, nil
}
