package app

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/companion/internal/domain"
	"github.com/bft-labs/companion/internal/ports"
)

// Mode selects how a boot step executes.
type Mode int

const (
	// ModeSimulate mutates state in memory after an artificial delay.
	ModeSimulate Mode = iota
	// ModeHardware initializes real drivers.
	ModeHardware
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSimulate:
		return "simulate"
	case ModeHardware:
		return "hardware"
	default:
		return "unknown"
	}
}

// Step is one named unit of the boot pipeline.
type Step struct {
	Name string
	Run  func(ctx context.Context, mode Mode) error
}

// OrchestratorConfig wires an Orchestrator.
type OrchestratorConfig struct {
	Store     *Store
	Machine   *StateMachine
	Callbacks *Callbacks
	Config    *ConfigProvider
	Logger    ports.Logger

	// Drivers are used in ModeHardware. Nil drivers succeed immediately.
	Drivers ports.Drivers

	// OpenBus opens the I2C bus. Nil means no bus driver is installed.
	OpenBus ports.BusOpener

	// Hardware reports whether the target board is present. Without it
	// every boot runs in ModeSimulate.
	Hardware bool

	// StepDelay overrides boot.simulated_step_delay when non-nil.
	StepDelay *time.Duration
}

// Orchestrator runs the fixed boot pipeline. Steps run strictly in order;
// a failing step is recorded and the pipeline continues.
type Orchestrator struct {
	store     *Store
	machine   *StateMachine
	callbacks *Callbacks
	config    *ConfigProvider
	logger    ports.Logger
	drivers   ports.Drivers
	openBus   ports.BusOpener
	hardware  bool
	stepDelay *time.Duration

	steps   []Step
	running atomic.Bool
	booted  atomic.Bool
}

// NewOrchestrator creates an orchestrator with the standard eight steps.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	o := &Orchestrator{
		store:     cfg.Store,
		machine:   cfg.Machine,
		callbacks: cfg.Callbacks,
		config:    cfg.Config,
		logger:    cfg.Logger,
		drivers:   cfg.Drivers,
		openBus:   cfg.OpenBus,
		hardware:  cfg.Hardware,
		stepDelay: cfg.StepDelay,
	}
	o.steps = o.defaultSteps()
	return o
}

// Booted reports whether a boot run has completed with the dashboard ready.
func (o *Orchestrator) Booted() bool {
	return o.booted.Load()
}

// Boot runs the pipeline and returns true if the dashboard became ready.
// The error is reserved for calls that cannot start a run: a boot already
// in progress, a completed boot, or a shut down controller. Step failures
// are recorded in BootStatus.Errors instead.
func (o *Orchestrator) Boot(ctx context.Context, simulate bool) (bool, error) {
	if !o.running.CompareAndSwap(false, true) {
		return false, domain.ErrBootInProgress
	}
	defer o.running.Store(false)

	if o.machine.State().Terminal() {
		return false, domain.ErrShutdown
	}
	if o.booted.Load() {
		return false, domain.ErrAlreadyBooted
	}

	mode := ModeHardware
	if simulate || !o.hardware {
		mode = ModeSimulate
	}

	bootID := uuid.NewString()
	start := time.Now()
	o.store.BeginRun(bootID, start)
	o.machine.Announce("boot started")

	banner := strings.Repeat("=", 60)
	o.logger.Info(banner)
	o.logger.Info("boot sequence started",
		ports.String("boot_id", bootID),
		ports.String("mode", mode.String()))
	o.logger.Info(banner)

	for _, step := range o.steps {
		o.logger.Info("boot step", ports.String("step", step.Name))
		o.callbacks.NotifyBoot(step.Name, o.store.Boot())

		if err := o.runStep(ctx, step, mode); err != nil {
			msg := fmt.Sprintf("Error during '%s': %v", step.Name, err)
			o.logger.Error(msg, ports.String("step", step.Name))
			o.store.UpdateBoot(func(b *domain.BootStatus) {
				b.Errors = append(b.Errors, msg)
			})
		}
	}

	var boot domain.BootStatus
	o.store.UpdateBoot(func(b *domain.BootStatus) {
		b.BootCompleteTime = time.Now()
		boot = b.Clone()
	})

	if !boot.DashboardReady {
		o.logger.Error("boot failed, dashboard not ready",
			ports.Int("errors", len(boot.Errors)))
		return false, nil
	}

	o.booted.Store(true)
	if err := o.machine.CompleteBoot(); err != nil {
		o.logger.Warn("boot finished but state was not advanced",
			ports.String("state", o.machine.State().String()),
			ports.Err(err))
	}
	o.logger.Info("boot complete",
		ports.Duration("duration", boot.BootDuration()),
		ports.Int("errors", len(boot.Errors)))
	o.logger.Info(banner)
	return true, nil
}

// runStep executes a single step, converting a panic into an error.
func (o *Orchestrator) runStep(ctx context.Context, step Step, mode Mode) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if mode == ModeSimulate {
		o.pause(ctx, o.simulatedDelay())
	}
	return step.Run(ctx, mode)
}

func (o *Orchestrator) simulatedDelay() time.Duration {
	if o.stepDelay != nil {
		return *o.stepDelay
	}
	return o.config.Current().Boot.SimulatedStepDelay
}

// pause sleeps for d or until ctx is done.
func (o *Orchestrator) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
