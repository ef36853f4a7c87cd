package ports

import "context"

// Subsystem is a hardware or software component brought up during boot.
// Init must be idempotent. A returned error marks the boot step as failed.
type Subsystem interface {
	Init(ctx context.Context) error
}

// SubsystemFunc adapts a function to the Subsystem interface.
type SubsystemFunc func(ctx context.Context) error

// Init calls f(ctx).
func (f SubsystemFunc) Init(ctx context.Context) error {
	return f(ctx)
}

// Drivers groups the subsystems initialized by the boot pipeline when
// running on real hardware. A nil field means the driver is not installed.
type Drivers struct {
	Display   Subsystem
	Sensors   Subsystem
	GPS       Subsystem
	LLM       Subsystem
	WakeWord  Subsystem
	Dashboard Subsystem
}

// HardwareDetector reports whether the controller runs on its target board.
type HardwareDetector interface {
	Present() bool
}
