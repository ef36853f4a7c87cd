package app

import (
	"fmt"
	"sync"

	"github.com/bft-labs/companion/internal/domain"
	"github.com/bft-labs/companion/internal/ports"
)

// StateMachine owns the canonical system state. The state can only change
// through its transition methods.
type StateMachine struct {
	mu        sync.Mutex
	state     domain.SystemState
	store     *Store
	callbacks *Callbacks
	logger    ports.Logger
}

// NewStateMachine creates a state machine in StateBooting.
func NewStateMachine(store *Store, callbacks *Callbacks, logger ports.Logger) *StateMachine {
	return &StateMachine{
		state:     domain.StateBooting,
		store:     store,
		callbacks: callbacks,
		logger:    logger,
	}
}

// State returns the current state.
func (m *StateMachine) State() domain.SystemState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the full status for the current state.
func (m *StateMachine) Snapshot() domain.Status {
	return m.store.Snapshot(m.State())
}

// Announce notifies state observers of the current state without changing it.
func (m *StateMachine) Announce(reason string) {
	status := m.Snapshot()
	m.logger.Debug("state announced",
		ports.String("state", status.State.String()),
		ports.String("reason", reason))
	m.callbacks.NotifyState(status)
}

// CompleteBoot moves BOOTING to READY.
func (m *StateMachine) CompleteBoot() error {
	_, err := m.transition(domain.StateReady, "boot complete", func(from domain.SystemState) bool {
		return from == domain.StateBooting
	})
	return err
}

// ActivateEmergency moves any non-terminal state to EMERGENCY.
func (m *StateMachine) ActivateEmergency() error {
	_, err := m.transition(domain.StateEmergency, "emergency activated", anyState)
	return err
}

// DeactivateEmergency moves EMERGENCY back to READY.
func (m *StateMachine) DeactivateEmergency() error {
	_, err := m.transition(domain.StateReady, "emergency deactivated", func(from domain.SystemState) bool {
		return from == domain.StateEmergency
	})
	return err
}

// EnterLowPower moves to LOW_POWER unless in EMERGENCY. It reports whether
// the state changed; calling it while already LOW_POWER is a no-op.
func (m *StateMachine) EnterLowPower(reason string) (bool, error) {
	return m.transition(domain.StateLowPower, reason, func(from domain.SystemState) bool {
		return from != domain.StateEmergency
	})
}

// BeginActivity moves READY to ACTIVE_VOICE or ACTIVE_VISION.
func (m *StateMachine) BeginActivity(activity domain.SystemState) error {
	if activity != domain.StateActiveVoice && activity != domain.StateActiveVision {
		return fmt.Errorf("%w: %s is not an activity", domain.ErrInvalidTransition, activity)
	}
	_, err := m.transition(activity, "activity started", func(from domain.SystemState) bool {
		return from == domain.StateReady
	})
	return err
}

// EndActivity moves ACTIVE_VOICE or ACTIVE_VISION back to READY.
func (m *StateMachine) EndActivity() error {
	_, err := m.transition(domain.StateReady, "activity finished", func(from domain.SystemState) bool {
		return from == domain.StateActiveVoice || from == domain.StateActiveVision
	})
	return err
}

// Shutdown moves any state to SHUTTING_DOWN and releases the memory label.
// It reports whether this call performed the shutdown; repeated calls are
// no-ops.
func (m *StateMachine) Shutdown() bool {
	m.mu.Lock()
	from := m.state
	if from.Terminal() {
		m.mu.Unlock()
		return false
	}
	m.store.SetMemoryState(domain.MemoryIdle)
	m.state = domain.StateShuttingDown
	m.mu.Unlock()

	m.logger.Info("state transition",
		ports.String("from", from.String()),
		ports.String("to", domain.StateShuttingDown.String()),
		ports.String("reason", "shutdown requested"),
	)
	m.callbacks.NotifyState(m.store.Snapshot(domain.StateShuttingDown))
	return true
}

// SetMemoryState records the memory label unless shut down. The check and
// the write happen under the state lock so a concurrent Shutdown always
// leaves the label idle.
func (m *StateMachine) SetMemoryState(mem domain.MemoryState) error {
	if !mem.Valid() {
		return fmt.Errorf("unknown memory state %q", mem)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Terminal() {
		return domain.ErrShutdown
	}
	m.store.SetMemoryState(mem)
	return nil
}

func anyState(domain.SystemState) bool { return true }

// transition validates and applies a state change, then notifies observers
// outside the lock. An allowed move to the current state is a no-op.
func (m *StateMachine) transition(to domain.SystemState, reason string, allowed func(from domain.SystemState) bool) (bool, error) {
	m.mu.Lock()
	from := m.state

	if from.Terminal() {
		m.mu.Unlock()
		return false, domain.ErrShutdown
	}
	if !allowed(from) {
		m.mu.Unlock()
		return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	if from == to {
		m.mu.Unlock()
		return false, nil
	}

	m.state = to
	m.mu.Unlock()

	m.logger.Info("state transition",
		ports.String("from", from.String()),
		ports.String("to", to.String()),
		ports.String("reason", reason),
	)

	m.callbacks.NotifyState(m.store.Snapshot(to))
	return true, nil
}
