package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/companion/internal/config"
	"github.com/bft-labs/companion/internal/domain"
	"github.com/bft-labs/companion/internal/ports"
)

// mockLogger records messages by level.
type mockLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
}

func (*mockLogger) Debug(msg string, fields ...ports.Field) {}
func (*mockLogger) Info(msg string, fields ...ports.Field)  {}

func (m *mockLogger) Warn(msg string, fields ...ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) Error(msg string, fields ...ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, msg)
}

func (m *mockLogger) Warns() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.warns...)
}

func (m *mockLogger) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.errs...)
}

// stateRecorder collects state-change notifications.
type stateRecorder struct {
	mu     sync.Mutex
	events []domain.Status
}

func (r *stateRecorder) callback(s domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
	return nil
}

func (r *stateRecorder) States() []domain.SystemState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SystemState, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.State)
	}
	return out
}

// harness wires the core components the way the controller does.
type harness struct {
	logger    *mockLogger
	store     *Store
	callbacks *Callbacks
	machine   *StateMachine
	config    *ConfigProvider
	power     *PowerManager
	states    *stateRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := &mockLogger{}
	store := NewStore()
	callbacks := NewCallbacks(logger)
	machine := NewStateMachine(store, callbacks, logger)
	cfg := NewFixedConfigProvider(config.Default(), logger)
	h := &harness{
		logger:    logger,
		store:     store,
		callbacks: callbacks,
		machine:   machine,
		config:    cfg,
		power:     NewPowerManager(store, machine, cfg, logger),
		states:    &stateRecorder{},
	}
	callbacks.RegisterState(h.states.callback)
	return h
}

func (h *harness) orchestrator(hardware bool, drivers ports.Drivers, openBus ports.BusOpener) *Orchestrator {
	noDelay := time.Duration(0)
	return NewOrchestrator(OrchestratorConfig{
		Store:     h.store,
		Machine:   h.machine,
		Callbacks: h.callbacks,
		Config:    h.config,
		Logger:    h.logger,
		Drivers:   drivers,
		OpenBus:   openBus,
		Hardware:  hardware,
		StepDelay: &noDelay,
	})
}

// setState forces the machine into s for table tests.
func (h *harness) setState(s domain.SystemState) {
	h.machine.mu.Lock()
	h.machine.state = s
	h.machine.mu.Unlock()
}

func failing(err error) ports.Subsystem {
	return ports.SubsystemFunc(func(context.Context) error { return err })
}
