package cliconfig

import "os"

// Environment variables read by ApplyEnvConfig. Device settings such as
// thresholds are read by the config package instead.
const (
	EnvConfigPath  = "COMPANION_CONFIG"
	EnvSimulate    = "COMPANION_SIMULATE"
	EnvConsole     = "COMPANION_CONSOLE"
	EnvLogLevel    = "COMPANION_LOG_LEVEL"
	EnvBatteryFile = "COMPANION_BATTERY_FILE"
	EnvMemoryGuard = "COMPANION_MEMORY_GUARD"
	EnvStatusDir   = "COMPANION_STATUS_DIR"
	EnvMQTTBroker  = "COMPANION_MQTT_BROKER"
	EnvMQTTPrefix  = "COMPANION_MQTT_PREFIX"
)

// ApplyEnvConfig applies COMPANION_* environment variables.
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("config", os.Getenv(EnvConfigPath), &cfg.ConfigPath)
	s.setString("log-level", os.Getenv(EnvLogLevel), &cfg.LogLevel)
	s.setString("battery-file", os.Getenv(EnvBatteryFile), &cfg.BatteryFile)
	s.setString("status-dir", os.Getenv(EnvStatusDir), &cfg.StatusDir)
	s.setString("mqtt-broker", os.Getenv(EnvMQTTBroker), &cfg.MQTTBroker)
	s.setString("mqtt-prefix", os.Getenv(EnvMQTTPrefix), &cfg.MQTTPrefix)

	if err := s.setBoolFromString("simulate", os.Getenv(EnvSimulate), &cfg.Simulate); err != nil {
		return err
	}
	if err := s.setBoolFromString("console", os.Getenv(EnvConsole), &cfg.Console); err != nil {
		return err
	}
	if err := s.setBoolFromString("memory-guard", os.Getenv(EnvMemoryGuard), &cfg.MemoryGuard); err != nil {
		return err
	}

	return nil
}
