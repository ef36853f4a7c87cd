// Package cliconfig resolves the settings of the companion command line.
// Values are layered: defaults, then the settings file, then COMPANION_*
// environment variables, then flags. A layer never overrides a flag the
// user set explicitly.
package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/companion/internal/config"
)

// Config holds CLI settings for the companion command.
type Config struct {
	// ConfigPath is the device configuration document.
	ConfigPath string

	Simulate bool
	Console  bool
	LogLevel string

	// StepDelay overrides boot.simulated_step_delay when not negative.
	StepDelay time.Duration

	BatteryFile string
	MemoryGuard bool

	// StatusDir enables the status file when set.
	StatusDir string

	MQTTBroker string
	MQTTPrefix string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ConfigPath: config.DefaultPath,
		LogLevel:   "info",
		StepDelay:  -1,
		MQTTPrefix: "companion",
	}
}

// HasStepDelay reports whether the step delay override is set.
func (c *Config) HasStepDelay() bool {
	return c.StepDelay >= 0
}

// Validate checks the configuration for errors and normalizes values.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		c.LogLevel = "info"
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	c.MQTTPrefix = strings.Trim(c.MQTTPrefix, "/")
	if c.MQTTBroker != "" && c.MQTTPrefix == "" {
		return fmt.Errorf("mqtt-prefix is required with mqtt-broker")
	}

	if c.ConfigPath == "" {
		c.ConfigPath = config.DefaultPath
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
