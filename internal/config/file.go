package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for decoding. Pointers distinguish absent keys
// from zero values, and durations are strings ("300ms") so that YAML and
// TOML documents read the same way.
type FileConfig struct {
	System *struct {
		PersonaName *string `yaml:"persona_name" toml:"persona_name"`
		Version     *string `yaml:"version" toml:"version"`
	} `yaml:"system" toml:"system"`
	Memory *struct {
		MaxRAMUsageMB *int `yaml:"max_ram_usage_mb" toml:"max_ram_usage_mb"`
	} `yaml:"memory" toml:"memory"`
	Voice *struct {
		WakeWords []string `yaml:"wake_words" toml:"wake_words"`
	} `yaml:"voice" toml:"voice"`
	Hardware *struct {
		Display *struct {
			Enabled *bool `yaml:"enabled" toml:"enabled"`
			Width   *int  `yaml:"width" toml:"width"`
			Height  *int  `yaml:"height" toml:"height"`
		} `yaml:"display" toml:"display"`
		I2C *struct {
			Bus *int `yaml:"bus" toml:"bus"`
		} `yaml:"i2c" toml:"i2c"`
	} `yaml:"hardware" toml:"hardware"`
	Power *struct {
		LowBatteryThreshold      *int `yaml:"low_battery_threshold" toml:"low_battery_threshold"`
		CriticalBatteryThreshold *int `yaml:"critical_battery_threshold" toml:"critical_battery_threshold"`
	} `yaml:"power" toml:"power"`
	Boot *struct {
		SimulatedStepDelay *string `yaml:"simulated_step_delay" toml:"simulated_step_delay"`
		SimulatedLLMWarmup *string `yaml:"simulated_llm_warmup" toml:"simulated_llm_warmup"`
	} `yaml:"boot" toml:"boot"`
}

// Source describes where a resolved configuration came from.
type Source string

const (
	SourceFile     Source = "file"
	SourceDefaults Source = "defaults"
)

// LoadResult is the outcome of Load.
type LoadResult struct {
	Config Config
	Source Source
	Path   string

	// Err is set when the file existed but could not be read or parsed.
	// Defaults were used instead.
	Err error

	// Warnings lists values that were repaired or ignored.
	Warnings []string
}

// Load resolves the configuration at path. It never fails: a missing file
// yields defaults, and a malformed one yields defaults with Err set.
// Environment overrides are applied in both cases.
func Load(path string) LoadResult {
	res := LoadResult{Config: Default(), Source: SourceDefaults, Path: path}

	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			res.Err = err
		} else if err := ApplyFileConfig(&res.Config, fc); err != nil {
			res.Config = Default()
			res.Err = err
		} else {
			res.Source = SourceFile
		}
	}

	res.Warnings = append(res.Warnings, ApplyEnvConfig(&res.Config)...)
	res.Warnings = append(res.Warnings, res.Config.Validate()...)
	return res
}

// LoadFileConfig reads and decodes the document at path. The format is
// chosen by extension: .toml is TOML, anything else is YAML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(b, &fc)
	default:
		err = yaml.Unmarshal(b, &fc)
	}
	if err != nil {
		return FileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// ApplyFileConfig merges the keys present in fc into cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if s := fc.System; s != nil {
		setString(s.PersonaName, &cfg.System.PersonaName)
		setString(s.Version, &cfg.System.Version)
	}
	if m := fc.Memory; m != nil {
		setInt(m.MaxRAMUsageMB, &cfg.Memory.MaxRAMUsageMB)
	}
	if v := fc.Voice; v != nil && v.WakeWords != nil {
		cfg.Voice.WakeWords = append([]string{}, v.WakeWords...)
	}
	if h := fc.Hardware; h != nil {
		if d := h.Display; d != nil {
			setBool(d.Enabled, &cfg.Hardware.Display.Enabled)
			setInt(d.Width, &cfg.Hardware.Display.Width)
			setInt(d.Height, &cfg.Hardware.Display.Height)
		}
		if i := h.I2C; i != nil {
			setInt(i.Bus, &cfg.Hardware.I2C.Bus)
		}
	}
	if p := fc.Power; p != nil {
		setInt(p.LowBatteryThreshold, &cfg.Power.LowBatteryThreshold)
		setInt(p.CriticalBatteryThreshold, &cfg.Power.CriticalBatteryThreshold)
	}
	if b := fc.Boot; b != nil {
		if err := setDuration("boot.simulated_step_delay", b.SimulatedStepDelay, &cfg.Boot.SimulatedStepDelay); err != nil {
			return err
		}
		if err := setDuration("boot.simulated_llm_warmup", b.SimulatedLLMWarmup, &cfg.Boot.SimulatedLLMWarmup); err != nil {
			return err
		}
	}
	return nil
}

// FileExists checks if a regular file exists at the given path.
func FileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func setString(v *string, dst *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(v *int, dst *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(v *bool, dst *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(key string, v *string, dst *time.Duration) error {
	if v == nil || *v == "" {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = d
	return nil
}
