package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/companion/internal/domain"
	"github.com/bft-labs/companion/internal/ports"
)

// Boot step names in execution order.
const (
	StepLoadConfiguration = "load-configuration"
	StepInitDisplay       = "init-display"
	StepScanBusDevices    = "scan-bus-devices"
	StepInitSensors       = "init-sensors"
	StepInitGPS           = "init-gps"
	StepWarmLLM           = "warm-llm"
	StepActivateWakeWord  = "activate-wake-word"
	StepLoadDashboard     = "load-dashboard"
)

// StepNames returns the boot step names in execution order.
func StepNames() []string {
	return []string{
		StepLoadConfiguration,
		StepInitDisplay,
		StepScanBusDevices,
		StepInitSensors,
		StepInitGPS,
		StepWarmLLM,
		StepActivateWakeWord,
		StepLoadDashboard,
	}
}

// BusDevice is a device expected on the I2C bus.
type BusDevice struct {
	Addr uint16
	Name string
	mark func(s *domain.SensorStatus)
}

// Label formats the device the way it is reported in BootStatus.
func (d BusDevice) Label() string {
	return fmt.Sprintf("%s at 0x%02X", d.Name, d.Addr)
}

// ExpectedBusDevices lists the sensors probed during boot, in probe order.
func ExpectedBusDevices() []BusDevice {
	return []BusDevice{
		{Addr: 0x57, Name: "MAX30102 (SpO2/HR)", mark: func(s *domain.SensorStatus) { s.MAX30102Connected = true }},
		{Addr: 0x5A, Name: "MLX90614 (Temperature)", mark: func(s *domain.SensorStatus) { s.MLX90614Connected = true }},
		{Addr: 0x76, Name: "BME280 (Environment)", mark: func(s *domain.SensorStatus) { s.BME280Connected = true }},
	}
}

func (o *Orchestrator) defaultSteps() []Step {
	return []Step{
		{Name: StepLoadConfiguration, Run: o.loadConfiguration},
		{Name: StepInitDisplay, Run: o.initDisplay},
		{Name: StepScanBusDevices, Run: o.scanBusDevices},
		{Name: StepInitSensors, Run: o.initSensors},
		{Name: StepInitGPS, Run: o.initGPS},
		{Name: StepWarmLLM, Run: o.warmLLM},
		{Name: StepActivateWakeWord, Run: o.activateWakeWord},
		{Name: StepLoadDashboard, Run: o.loadDashboard},
	}
}

func (o *Orchestrator) loadConfiguration(ctx context.Context, mode Mode) error {
	o.config.Load()
	return nil
}

func (o *Orchestrator) initDisplay(ctx context.Context, mode Mode) error {
	display := o.config.Current().Hardware.Display
	if !display.Enabled {
		o.logger.Info("display disabled by configuration")
		return nil
	}

	switch {
	case mode == ModeSimulate:
		o.logger.Info("[SIM] display initialized",
			ports.Int("width", display.Width), ports.Int("height", display.Height))
	case o.drivers.Display == nil:
		o.logger.Warn("display driver not installed, using simulation")
	default:
		if err := o.drivers.Display.Init(ctx); err != nil {
			return err
		}
		o.logger.Info("display initialized")
	}

	o.store.UpdateBoot(func(b *domain.BootStatus) { b.DisplayInitialized = true })
	return nil
}

func (o *Orchestrator) scanBusDevices(ctx context.Context, mode Mode) error {
	devices := ExpectedBusDevices()

	if mode == ModeSimulate {
		for _, d := range devices {
			o.recordDevice(d)
			o.logger.Info("[SIM] found device", ports.String("device", d.Label()))
		}
		return nil
	}

	busNum := o.config.Current().Hardware.I2C.Bus
	if o.openBus == nil {
		o.logger.Warn("i2c driver not available, skipping scan")
		return nil
	}
	bus, err := o.openBus(busNum)
	if err != nil {
		if errors.Is(err, domain.ErrBusUnavailable) {
			o.logger.Warn("i2c bus not available, skipping scan",
				ports.Int("bus", busNum), ports.Err(err))
			return nil
		}
		return fmt.Errorf("open i2c bus %d: %w", busNum, err)
	}
	defer bus.Close()

	for _, d := range devices {
		if err := bus.Probe(d.Addr); err != nil {
			o.logger.Warn("device not found", ports.String("device", d.Label()), ports.Err(err))
			continue
		}
		o.recordDevice(d)
		o.logger.Info("found device", ports.String("device", d.Label()))
	}
	return nil
}

func (o *Orchestrator) recordDevice(d BusDevice) {
	o.store.UpdateBoot(func(b *domain.BootStatus) {
		b.I2CDevicesDetected = append(b.I2CDevicesDetected, d.Label())
	})
	o.store.UpdateSensors(d.mark)
}

func (o *Orchestrator) initSensors(ctx context.Context, mode Mode) error {
	if mode == ModeSimulate {
		o.store.UpdateSensors(func(s *domain.SensorStatus) {
			s.ADCReady = true
			s.CameraReady = true
		})
		o.store.UpdateBoot(func(b *domain.BootStatus) { b.SensorsInitialized = true })
		o.logger.Info("[SIM] all sensors initialized")
		return nil
	}

	if err := initDriver(ctx, o.drivers.Sensors); err != nil {
		return err
	}
	o.store.UpdateBoot(func(b *domain.BootStatus) { b.SensorsInitialized = true })
	o.logger.Info("sensors initialized")
	return nil
}

func (o *Orchestrator) initGPS(ctx context.Context, mode Mode) error {
	if mode == ModeHardware {
		if err := initDriver(ctx, o.drivers.GPS); err != nil {
			return err
		}
	}

	// A cold start never has a fix yet.
	o.store.UpdateSensors(func(s *domain.SensorStatus) {
		s.GPSConnected = true
		s.GPSFix = false
	})
	o.store.UpdateBoot(func(b *domain.BootStatus) {
		b.GPSInitialized = true
		b.GPSFix = false
	})

	if mode == ModeSimulate {
		o.logger.Info("[SIM] GPS initialized, awaiting fix")
	} else {
		o.logger.Info("GPS initialized")
	}
	return nil
}

func (o *Orchestrator) warmLLM(ctx context.Context, mode Mode) error {
	o.store.UpdateBoot(func(b *domain.BootStatus) { b.LLMWarmingUp = true })

	var err error
	if mode == ModeSimulate {
		o.pause(ctx, o.simulatedWarmup())
	} else {
		err = initDriver(ctx, o.drivers.LLM)
	}

	o.store.UpdateBoot(func(b *domain.BootStatus) {
		b.LLMWarmingUp = false
		b.LLMReady = err == nil
	})
	if err != nil {
		return err
	}

	if mode == ModeSimulate {
		o.logger.Info("[SIM] LLM ready")
	} else {
		o.logger.Info("LLM ready")
	}
	return nil
}

func (o *Orchestrator) activateWakeWord(ctx context.Context, mode Mode) error {
	if mode == ModeHardware {
		if err := initDriver(ctx, o.drivers.WakeWord); err != nil {
			return err
		}
	}

	o.store.UpdateBoot(func(b *domain.BootStatus) { b.WakeWordActive = true })
	o.logger.Info("wake word active",
		ports.Strings("wake_words", o.config.Current().Voice.WakeWords),
		ports.String("mode", mode.String()))
	return nil
}

func (o *Orchestrator) loadDashboard(ctx context.Context, mode Mode) error {
	if mode == ModeHardware {
		if err := initDriver(ctx, o.drivers.Dashboard); err != nil {
			return err
		}
	}

	o.store.UpdateBoot(func(b *domain.BootStatus) { b.DashboardReady = true })
	o.logger.Info("dashboard ready", ports.String("mode", mode.String()))
	return nil
}

func (o *Orchestrator) simulatedWarmup() time.Duration {
	if o.stepDelay != nil {
		return *o.stepDelay
	}
	return o.config.Current().Boot.SimulatedLLMWarmup
}

// initDriver initializes d. A missing driver counts as success.
func initDriver(ctx context.Context, d ports.Subsystem) error {
	if d == nil {
		return nil
	}
	return d.Init(ctx)
}
