package batterywatch

import "github.com/bft-labs/companion/pkg/companion"

// WithBatteryWatch returns a companion Option that enables the battery watcher.
//
// Usage:
//
//	c, err := companion.New(
//	    batterywatch.WithBatteryWatch(batterywatch.Config{
//	        Path: "/var/lib/fuelgauge/percent",
//	    }),
//	)
func WithBatteryWatch(cfg Config) companion.Option {
	return companion.WithPlugin(New(cfg))
}

// WithDefaultBatteryWatch watches DefaultPath with a 100ms debounce.
func WithDefaultBatteryWatch() companion.Option {
	return WithBatteryWatch(DefaultConfig())
}
