package companion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/companion/internal/adapters/hw"
	"github.com/bft-labs/companion/internal/adapters/i2c"
	"github.com/bft-labs/companion/internal/app"
	"github.com/bft-labs/companion/internal/ports"
	"github.com/bft-labs/companion/pkg/log"
)

// Controller is the device controller. Create it with New; it does not boot
// until Boot is called. All methods are safe for concurrent use.
type Controller struct {
	logger       ports.Logger
	config       *app.ConfigProvider
	callbacks    *app.Callbacks
	machine      *app.StateMachine
	power        *app.PowerManager
	orchestrator *app.Orchestrator
	hardware     bool

	plugins []Plugin

	mu      sync.Mutex
	started []Plugin
	cancel  context.CancelFunc
}

// New creates a controller in StateBooting. The configuration is resolved
// immediately; a missing or malformed document falls back to defaults.
func New(opts ...Option) (*Controller, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.stepDelay != nil && *o.stepDelay < 0 {
		return nil, fmt.Errorf("companion: negative step delay %s", *o.stepDelay)
	}
	for i, p := range o.plugins {
		if p == nil {
			return nil, fmt.Errorf("companion: plugin %d is nil", i)
		}
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	var cfg *app.ConfigProvider
	if o.config != nil {
		cfg = app.NewFixedConfigProvider(*o.config, logger)
	} else {
		cfg = app.NewConfigProvider(o.configPath, logger)
	}

	detector := o.detector
	if detector == nil {
		detector = hw.NewDetector()
	}
	hardware := detector.Present()

	openBus := o.openBus
	if openBus == nil {
		openBus = i2c.Opener()
	}

	store := app.NewStore()
	callbacks := app.NewCallbacks(logger)
	machine := app.NewStateMachine(store, callbacks, logger)

	c := &Controller{
		logger:    logger,
		config:    cfg,
		callbacks: callbacks,
		machine:   machine,
		power:     app.NewPowerManager(store, machine, cfg, logger),
		orchestrator: app.NewOrchestrator(app.OrchestratorConfig{
			Store:     store,
			Machine:   machine,
			Callbacks: callbacks,
			Config:    cfg,
			Logger:    logger,
			Drivers:   o.drivers,
			OpenBus:   openBus,
			Hardware:  hardware,
			StepDelay: o.stepDelay,
		}),
		hardware: hardware,
		plugins:  o.plugins,
	}

	current := cfg.Current()
	logger.Info("controller created",
		ports.String("persona", current.System.PersonaName),
		ports.String("version", current.System.Version),
		ports.Bool("hardware", hardware))
	return c, nil
}

// Boot runs the boot pipeline and reports whether the dashboard became ready.
// Simulate mode is used when simulate is true or no hardware is present.
// Step failures are recorded in the boot status, not returned.
func (c *Controller) Boot(ctx context.Context, simulate bool) (bool, error) {
	return c.orchestrator.Boot(ctx, simulate)
}

// Status returns an immutable snapshot of the controller.
func (c *Controller) Status() Status {
	return c.machine.Snapshot()
}

// State returns the current system state.
func (c *Controller) State() State {
	return c.machine.State()
}

// Config returns the active configuration.
func (c *Controller) Config() Config {
	return c.config.Current()
}

// HardwarePresent reports whether the target board was detected.
func (c *Controller) HardwarePresent() bool {
	return c.hardware
}

// SetBatteryLevel records a battery reading. Out of range values are clamped.
// A level at or below the low threshold enters low-power mode once.
func (c *Controller) SetBatteryLevel(level int) {
	c.power.SetBatteryLevel(level)
}

// ActivateEmergency enters emergency mode from any state but shutdown.
func (c *Controller) ActivateEmergency() error {
	return c.machine.ActivateEmergency()
}

// DeactivateEmergency returns from emergency mode to ready.
func (c *Controller) DeactivateEmergency() error {
	return c.machine.DeactivateEmergency()
}

// BeginActivity marks a voice or vision interaction as running.
func (c *Controller) BeginActivity(activity State) error {
	return c.machine.BeginActivity(activity)
}

// EndActivity returns from a voice or vision interaction to ready.
func (c *Controller) EndActivity() error {
	return c.machine.EndActivity()
}

// SetMemoryState records which subsystem occupies working memory.
func (c *Controller) SetMemoryState(m MemoryState) error {
	return c.machine.SetMemoryState(m)
}

// Shutdown moves the controller to StateShuttingDown and releases the
// memory label. Calling it again is a no-op.
func (c *Controller) Shutdown() error {
	if c.machine.Shutdown() {
		c.logger.Info("controller shut down")
	}
	return nil
}

// RegisterStateCallback adds an observer of state changes.
func (c *Controller) RegisterStateCallback(cb StateCallback) {
	c.callbacks.RegisterState(cb)
}

// RegisterBootCallback adds an observer of boot progress.
func (c *Controller) RegisterBootCallback(cb BootCallback) {
	c.callbacks.RegisterBoot(cb)
}

// Start initializes plugins in registration order. If one fails, the ones
// already initialized are shut down and the error is returned.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return errors.New("companion: already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	pluginCfg := PluginConfig{
		Controller: c,
		Config:     c.config.Current(),
		Logger:     c.logger,
	}

	for _, p := range c.plugins {
		if err := c.initPlugin(runCtx, p, pluginCfg); err != nil {
			c.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			cancel()
			c.shutdownPlugins()
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		c.started = append(c.started, p)
		c.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	c.cancel = cancel
	return nil
}

// Close shuts down started plugins in reverse order.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.shutdownPlugins()
}

func (c *Controller) initPlugin(ctx context.Context, p Plugin, cfg PluginConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Initialize(ctx, cfg)
}

// shutdownPlugins must be called with c.mu held.
func (c *Controller) shutdownPlugins() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	for i := len(c.started) - 1; i >= 0; i-- {
		p := c.started[i]
		if err := p.Shutdown(ctx); err != nil {
			c.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			errs = append(errs, fmt.Errorf("plugin %s: %w", p.Name(), err))
			continue
		}
		c.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
	}
	c.started = nil
	return errors.Join(errs...)
}
