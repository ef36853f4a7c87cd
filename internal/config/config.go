// Package config loads the companion configuration document.
//
// A configuration is resolved once: the file at the configured path (YAML or
// TOML, chosen by extension) is merged over the built-in defaults, then
// COMPANION_* environment variables are applied. A missing or malformed file
// is never an error for the caller; defaults are used and the problem is
// reported in the LoadResult.
package config

import (
	"fmt"
	"time"
)

// DefaultPath is where the controller looks for its configuration.
const DefaultPath = "config/companion.yaml"

// Config is the resolved configuration tree. Treat it as read-only after Load.
type Config struct {
	System   SystemConfig   `yaml:"system" toml:"system"`
	Memory   MemoryConfig   `yaml:"memory" toml:"memory"`
	Voice    VoiceConfig    `yaml:"voice" toml:"voice"`
	Hardware HardwareConfig `yaml:"hardware" toml:"hardware"`
	Power    PowerConfig    `yaml:"power" toml:"power"`
	Boot     BootConfig     `yaml:"boot" toml:"boot"`
}

type SystemConfig struct {
	PersonaName string `yaml:"persona_name" toml:"persona_name"`
	Version     string `yaml:"version" toml:"version"`
}

type MemoryConfig struct {
	MaxRAMUsageMB int `yaml:"max_ram_usage_mb" toml:"max_ram_usage_mb"`
}

type VoiceConfig struct {
	WakeWords []string `yaml:"wake_words" toml:"wake_words"`
}

type HardwareConfig struct {
	Display DisplayConfig `yaml:"display" toml:"display"`
	I2C     I2CConfig     `yaml:"i2c" toml:"i2c"`
}

type DisplayConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	Width   int  `yaml:"width" toml:"width"`
	Height  int  `yaml:"height" toml:"height"`
}

type I2CConfig struct {
	Bus int `yaml:"bus" toml:"bus"`
}

// PowerConfig holds battery thresholds in percent.
type PowerConfig struct {
	LowBatteryThreshold      int `yaml:"low_battery_threshold" toml:"low_battery_threshold"`
	CriticalBatteryThreshold int `yaml:"critical_battery_threshold" toml:"critical_battery_threshold"`
}

// BootConfig tunes simulate mode.
type BootConfig struct {
	SimulatedStepDelay time.Duration `yaml:"simulated_step_delay" toml:"simulated_step_delay"`
	SimulatedLLMWarmup time.Duration `yaml:"simulated_llm_warmup" toml:"simulated_llm_warmup"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		System: SystemConfig{
			PersonaName: "Survival Companion",
			Version:     "1.0.0",
		},
		Memory: MemoryConfig{MaxRAMUsageMB: 7500},
		Voice:  VoiceConfig{WakeWords: []string{"survival", "companion"}},
		Hardware: HardwareConfig{
			Display: DisplayConfig{Enabled: true, Width: 480, Height: 320},
			I2C:     I2CConfig{Bus: 1},
		},
		Power: PowerConfig{
			LowBatteryThreshold:      20,
			CriticalBatteryThreshold: 10,
		},
		Boot: BootConfig{
			SimulatedStepDelay: 300 * time.Millisecond,
			SimulatedLLMWarmup: 500 * time.Millisecond,
		},
	}
}

// Validate repairs out-of-range values by resetting them to defaults.
// It returns one warning per repaired value.
func (c *Config) Validate() []string {
	def := Default()
	var warnings []string

	if c.System.PersonaName == "" {
		c.System.PersonaName = def.System.PersonaName
	}
	if c.Memory.MaxRAMUsageMB <= 0 {
		warnings = append(warnings, fmt.Sprintf("memory.max_ram_usage_mb %d invalid, using %d",
			c.Memory.MaxRAMUsageMB, def.Memory.MaxRAMUsageMB))
		c.Memory.MaxRAMUsageMB = def.Memory.MaxRAMUsageMB
	}
	if len(c.Voice.WakeWords) == 0 {
		c.Voice.WakeWords = def.Voice.WakeWords
	}
	if c.Hardware.I2C.Bus < 0 {
		warnings = append(warnings, fmt.Sprintf("hardware.i2c.bus %d invalid, using %d",
			c.Hardware.I2C.Bus, def.Hardware.I2C.Bus))
		c.Hardware.I2C.Bus = def.Hardware.I2C.Bus
	}

	low, crit := c.Power.LowBatteryThreshold, c.Power.CriticalBatteryThreshold
	if low < 0 || low > 100 || crit < 0 || crit > 100 || crit > low {
		warnings = append(warnings, fmt.Sprintf("power thresholds low=%d critical=%d invalid, using %d/%d",
			low, crit, def.Power.LowBatteryThreshold, def.Power.CriticalBatteryThreshold))
		c.Power = def.Power
	}

	if c.Boot.SimulatedStepDelay < 0 {
		c.Boot.SimulatedStepDelay = 0
	}
	if c.Boot.SimulatedLLMWarmup < 0 {
		c.Boot.SimulatedLLMWarmup = 0
	}
	return warnings
}
