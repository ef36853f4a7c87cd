package companion

import (
	"time"

	"github.com/bft-labs/companion/internal/config"
)

// Option configures optional behavior of a Controller.
type Option func(*options)

type options struct {
	logger     Logger
	configPath string
	config     *Config
	drivers    Drivers
	detector   HardwareDetector
	openBus    BusOpener
	stepDelay  *time.Duration
	plugins    []Plugin
}

func defaultOptions() options {
	return options{
		configPath: config.DefaultPath,
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConfigPath sets the configuration document to load. A missing file
// falls back to defaults with a warning.
func WithConfigPath(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithConfig uses cfg as is and never reads a file. Invalid values are
// repaired and logged.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = &cfg
	}
}

// WithDrivers installs the drivers used when booting on real hardware.
func WithDrivers(d Drivers) Option {
	return func(o *options) {
		o.drivers = d
	}
}

// WithHardwareDetector replaces the board detection.
func WithHardwareDetector(d HardwareDetector) Option {
	return func(o *options) {
		o.detector = d
	}
}

// WithBusOpener replaces the I2C bus driver.
func WithBusOpener(open BusOpener) Option {
	return func(o *options) {
		o.openBus = open
	}
}

// WithStepDelay overrides the simulated per-step delay and LLM warm-up.
func WithStepDelay(d time.Duration) Option {
	return func(o *options) {
		o.stepDelay = &d
	}
}

// WithPlugin registers a plugin to be initialized by Start.
// Plugins are initialized in registration order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
