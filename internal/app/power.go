package app

import (
	"sync"

	"github.com/bft-labs/companion/internal/domain"
	"github.com/bft-labs/companion/internal/ports"
)

// PowerManager applies battery readings and drives low-power transitions.
// A critical level only logs: emergency mode is never entered automatically.
type PowerManager struct {
	mu      sync.Mutex
	store   *Store
	machine *StateMachine
	config  *ConfigProvider
	logger  ports.Logger
}

// NewPowerManager creates a power manager reading thresholds from config.
func NewPowerManager(store *Store, machine *StateMachine, config *ConfigProvider, logger ports.Logger) *PowerManager {
	return &PowerManager{
		store:   store,
		machine: machine,
		config:  config,
		logger:  logger,
	}
}

// SetBatteryLevel clamps level to [0, 100], stores it and reacts to
// threshold crossings. It returns the stored level.
func (p *PowerManager) SetBatteryLevel(level int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored := domain.ClampBattery(level)
	p.store.UpdateBoot(func(b *domain.BootStatus) {
		b.BatteryLevel = stored
	})

	power := p.config.Current().Power
	state := p.machine.State()

	switch {
	case stored <= power.CriticalBatteryThreshold:
		if state != domain.StateEmergency {
			p.logger.Warn("critical battery, emergency beacon only",
				ports.Int("battery", stored),
				ports.String("state", state.String()))
		}

	case stored <= power.LowBatteryThreshold:
		if state == domain.StateLowPower || state == domain.StateEmergency || state.Terminal() {
			return stored
		}
		p.logger.Warn("low battery, reducing features", ports.Int("battery", stored))
		if _, err := p.machine.EnterLowPower("battery low"); err != nil {
			p.logger.Warn("low power transition rejected", ports.Err(err))
		}
	}

	return stored
}
