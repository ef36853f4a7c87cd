package companion

import (
	"github.com/bft-labs/companion/internal/app"
	"github.com/bft-labs/companion/internal/config"
	"github.com/bft-labs/companion/internal/domain"
	"github.com/bft-labs/companion/internal/ports"
	"github.com/bft-labs/companion/pkg/log"
)

// Re-exported domain types.
type (
	State       = domain.SystemState
	MemoryState = domain.MemoryState
	Status      = domain.Status
	BootStatus  = domain.BootStatus

	// Config is the resolved configuration tree.
	Config = config.Config

	StateCallback = app.StateCallback
	BootCallback  = app.BootCallback

	Logger   = log.Logger
	LogField = log.Field

	// Subsystem is a driver brought up during boot.
	Subsystem = ports.Subsystem
	// SubsystemFunc adapts a function to Subsystem.
	SubsystemFunc = ports.SubsystemFunc
	// Drivers groups the real-mode drivers. Nil fields succeed immediately.
	Drivers = ports.Drivers

	HardwareDetector = ports.HardwareDetector
	BusProber        = ports.BusProber
	BusOpener        = ports.BusOpener
)

const (
	StateBooting      = domain.StateBooting
	StateInitializing = domain.StateInitializing
	StateReady        = domain.StateReady
	StateActiveVoice  = domain.StateActiveVoice
	StateActiveVision = domain.StateActiveVision
	StateEmergency    = domain.StateEmergency
	StateLowPower     = domain.StateLowPower
	StateShuttingDown = domain.StateShuttingDown
)

const (
	MemoryIdle         = domain.MemoryIdle
	MemoryFastLLM      = domain.MemoryFastLLM
	MemoryMedicalLLM   = domain.MemoryMedicalLLM
	MemoryVisionActive = domain.MemoryVisionActive
)

var (
	ErrInvalidTransition = domain.ErrInvalidTransition
	ErrShutdown          = domain.ErrShutdown
	ErrBootInProgress    = domain.ErrBootInProgress
	ErrAlreadyBooted     = domain.ErrAlreadyBooted
	ErrBusUnavailable    = domain.ErrBusUnavailable
	ErrDeviceNotFound    = domain.ErrDeviceNotFound
)

// DefaultConfigPath is used when no path or config is given.
const DefaultConfigPath = config.DefaultPath

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return config.Default()
}

// StepNames returns the boot step names in execution order.
func StepNames() []string {
	return app.StepNames()
}
