package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnvConfig.
const (
	EnvPersonaName       = "COMPANION_PERSONA_NAME"
	EnvMaxRAMMB          = "COMPANION_MAX_RAM_MB"
	EnvWakeWords         = "COMPANION_WAKE_WORDS"
	EnvDisplayEnabled    = "COMPANION_DISPLAY_ENABLED"
	EnvI2CBus            = "COMPANION_I2C_BUS"
	EnvLowThreshold      = "COMPANION_LOW_BATTERY_THRESHOLD"
	EnvCriticalThreshold = "COMPANION_CRITICAL_BATTERY_THRESHOLD"
	EnvStepDelay         = "COMPANION_STEP_DELAY"
)

// ApplyEnvConfig applies COMPANION_* environment variables over cfg.
// Malformed values are skipped and reported as warnings.
func ApplyEnvConfig(cfg *Config) []string {
	var warnings []string
	warn := func(err error) {
		if err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	if v := os.Getenv(EnvPersonaName); v != "" {
		cfg.System.PersonaName = v
	}
	if v := os.Getenv(EnvWakeWords); v != "" {
		var words []string
		for _, w := range strings.Split(v, ",") {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
		if len(words) > 0 {
			cfg.Voice.WakeWords = words
		}
	}

	warn(envInt(EnvMaxRAMMB, &cfg.Memory.MaxRAMUsageMB))
	warn(envInt(EnvI2CBus, &cfg.Hardware.I2C.Bus))
	warn(envInt(EnvLowThreshold, &cfg.Power.LowBatteryThreshold))
	warn(envInt(EnvCriticalThreshold, &cfg.Power.CriticalBatteryThreshold))
	warn(envBool(EnvDisplayEnabled, &cfg.Hardware.Display.Enabled))
	warn(envDuration(EnvStepDelay, &cfg.Boot.SimulatedStepDelay))

	return warnings
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = i
	return nil
}

// envBool accepts "true"/"1" as true and "false"/"0" as false.
func envBool(key string, dst *bool) error {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "":
		return nil
	case "true", "1":
		*dst = true
	case "false", "0":
		*dst = false
	default:
		return fmt.Errorf("parse %s: invalid boolean %q", key, os.Getenv(key))
	}
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = d
	return nil
}
