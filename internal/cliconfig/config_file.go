package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ConfigPath  string `toml:"config"`
	Simulate    *bool  `toml:"simulate"`
	Console     *bool  `toml:"console"`
	LogLevel    string `toml:"log_level"`
	StepDelay   string `toml:"step_delay"`
	BatteryFile string `toml:"battery_file"`
	MemoryGuard *bool  `toml:"memory_guard"`
	StatusDir   string `toml:"status_dir"`
	MQTTBroker  string `toml:"mqtt_broker"`
	MQTTPrefix  string `toml:"mqtt_prefix"`
}

// LoadFileConfig reads and parses a TOML settings file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default settings file path.
// Returns ~/.companion/cli.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".companion", "cli.toml")
	}
	return ""
}

// ApplyFileConfig applies settings from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("config", fc.ConfigPath, &cfg.ConfigPath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("battery-file", fc.BatteryFile, &cfg.BatteryFile)
	s.setString("status-dir", fc.StatusDir, &cfg.StatusDir)
	s.setString("mqtt-broker", fc.MQTTBroker, &cfg.MQTTBroker)
	s.setString("mqtt-prefix", fc.MQTTPrefix, &cfg.MQTTPrefix)

	if err := s.setDuration("step-delay", fc.StepDelay, &cfg.StepDelay); err != nil {
		return err
	}

	s.setBool("simulate", fc.Simulate, &cfg.Simulate)
	s.setBool("console", fc.Console, &cfg.Console)
	s.setBool("memory-guard", fc.MemoryGuard, &cfg.MemoryGuard)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
