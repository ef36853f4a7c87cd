package domain

import "time"

// DefaultBatteryLevel is the battery percentage assumed before any reading.
const DefaultBatteryLevel = 100

// BootStatus tracks readiness of every subsystem during and after a boot run.
// The orchestrator is its only writer while booting.
type BootStatus struct {
	DisplayInitialized bool
	SensorsInitialized bool
	GPSInitialized     bool
	LLMWarmingUp       bool
	LLMReady           bool
	WakeWordActive     bool
	DashboardReady     bool
	GPSFix             bool

	// I2CDevicesDetected lists found bus devices in probe order.
	I2CDevicesDetected []string

	// BatteryLevel is a percentage in [0, 100].
	BatteryLevel int

	// BootID identifies the latest boot run. Empty until the first run.
	BootID string

	// BootStartTime and BootCompleteTime are zero when unset.
	// BootCompleteTime is set once the run finished, success or not.
	BootStartTime    time.Time
	BootCompleteTime time.Time

	// Errors accumulates step failures without aborting the run.
	Errors []string
}

// NewBootStatus returns a BootStatus with defaults applied.
func NewBootStatus() BootStatus {
	return BootStatus{
		I2CDevicesDetected: []string{},
		BatteryLevel:       DefaultBatteryLevel,
		Errors:             []string{},
	}
}

// NewRun returns the record for a fresh boot run. Only the battery level
// carries over; every readiness flag starts false.
func (b BootStatus) NewRun(id string, start time.Time) BootStatus {
	r := NewBootStatus()
	r.BatteryLevel = b.BatteryLevel
	r.BootID = id
	r.BootStartTime = start
	return r
}

// Clone returns a deep copy that shares no slices with b.
func (b BootStatus) Clone() BootStatus {
	c := b
	c.I2CDevicesDetected = append([]string{}, b.I2CDevicesDetected...)
	c.Errors = append([]string{}, b.Errors...)
	return c
}

// Complete reports whether the boot run has finished.
func (b BootStatus) Complete() bool {
	return !b.BootCompleteTime.IsZero()
}

// BootDuration returns how long the last boot run took, or 0 if it has not finished.
func (b BootStatus) BootDuration() time.Duration {
	if !b.Complete() || b.BootStartTime.IsZero() {
		return 0
	}
	return b.BootCompleteTime.Sub(b.BootStartTime)
}

// ClampBattery limits level to the [0, 100] range.
func ClampBattery(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}
