package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/bft-labs/companion/internal/domain"
)

func TestNewStateMachine(t *testing.T) {
	h := newHarness(t)

	if h.machine.State() != domain.StateBooting {
		t.Errorf("initial state = %v, want booting", h.machine.State())
	}
	if h.machine.Snapshot().IsReady {
		t.Error("fresh machine reports ready")
	}
}

func TestStateMachine_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domain.SystemState
		do   func(m *StateMachine) error
		want domain.SystemState
	}{
		{"boot complete", domain.StateBooting, (*StateMachine).CompleteBoot, domain.StateReady},
		{"emergency from ready", domain.StateReady, (*StateMachine).ActivateEmergency, domain.StateEmergency},
		{"emergency from booting", domain.StateBooting, (*StateMachine).ActivateEmergency, domain.StateEmergency},
		{"emergency from low power", domain.StateLowPower, (*StateMachine).ActivateEmergency, domain.StateEmergency},
		{"emergency cleared", domain.StateEmergency, (*StateMachine).DeactivateEmergency, domain.StateReady},
		{"voice", domain.StateReady, func(m *StateMachine) error { return m.BeginActivity(domain.StateActiveVoice) }, domain.StateActiveVoice},
		{"vision", domain.StateReady, func(m *StateMachine) error { return m.BeginActivity(domain.StateActiveVision) }, domain.StateActiveVision},
		{"voice done", domain.StateActiveVoice, (*StateMachine).EndActivity, domain.StateReady},
		{"vision done", domain.StateActiveVision, (*StateMachine).EndActivity, domain.StateReady},
		{"shutdown from ready", domain.StateReady, func(m *StateMachine) error { m.Shutdown(); return nil }, domain.StateShuttingDown},
		{"shutdown from emergency", domain.StateEmergency, func(m *StateMachine) error { m.Shutdown(); return nil }, domain.StateShuttingDown},
		{"low power from ready", domain.StateReady, func(m *StateMachine) error { _, err := m.EnterLowPower("test"); return err }, domain.StateLowPower},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.setState(tt.from)

			if err := tt.do(h.machine); err != nil {
				t.Fatalf("transition error = %v", err)
			}
			if got := h.machine.State(); got != tt.want {
				t.Errorf("state = %v, want %v", got, tt.want)
			}

			states := h.states.States()
			if len(states) != 1 || states[0] != tt.want {
				t.Errorf("notifications = %v, want [%v]", states, tt.want)
			}
		})
	}
}

func TestStateMachine_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domain.SystemState
		do   func(m *StateMachine) error
	}{
		{"complete from ready", domain.StateReady, (*StateMachine).CompleteBoot},
		{"complete from low power", domain.StateLowPower, (*StateMachine).CompleteBoot},
		{"deactivate from ready", domain.StateReady, (*StateMachine).DeactivateEmergency},
		{"voice from booting", domain.StateBooting, func(m *StateMachine) error { return m.BeginActivity(domain.StateActiveVoice) }},
		{"activity with non-activity state", domain.StateReady, func(m *StateMachine) error { return m.BeginActivity(domain.StateEmergency) }},
		{"end activity from ready", domain.StateReady, (*StateMachine).EndActivity},
		{"low power from emergency", domain.StateEmergency, func(m *StateMachine) error { _, err := m.EnterLowPower("test"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.setState(tt.from)

			err := tt.do(h.machine)
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("error = %v, want ErrInvalidTransition", err)
			}
			if got := h.machine.State(); got != tt.from {
				t.Errorf("state changed to %v", got)
			}
			if n := len(h.states.States()); n != 0 {
				t.Errorf("notifications = %d, want 0", n)
			}
		})
	}
}

func TestStateMachine_SameStateIsNoop(t *testing.T) {
	h := newHarness(t)
	h.setState(domain.StateEmergency)

	if err := h.machine.ActivateEmergency(); err != nil {
		t.Fatalf("ActivateEmergency() error = %v", err)
	}
	if n := len(h.states.States()); n != 0 {
		t.Errorf("notifications = %d, want 0", n)
	}
}

func TestStateMachine_EnterLowPowerOnce(t *testing.T) {
	h := newHarness(t)
	h.setState(domain.StateReady)

	changed, err := h.machine.EnterLowPower("battery low")
	if err != nil || !changed {
		t.Fatalf("first EnterLowPower() = %v, %v", changed, err)
	}
	changed, err = h.machine.EnterLowPower("battery low")
	if err != nil || changed {
		t.Fatalf("second EnterLowPower() = %v, %v", changed, err)
	}
	if n := len(h.states.States()); n != 1 {
		t.Errorf("notifications = %d, want 1", n)
	}
}

func TestStateMachine_ShutdownIsTerminal(t *testing.T) {
	h := newHarness(t)
	h.setState(domain.StateReady)

	if !h.machine.Shutdown() {
		t.Fatal("Shutdown() = false, want true")
	}
	if h.machine.Shutdown() {
		t.Error("second Shutdown() = true, want false")
	}

	if err := h.machine.ActivateEmergency(); !errors.Is(err, domain.ErrShutdown) {
		t.Errorf("ActivateEmergency() error = %v, want ErrShutdown", err)
	}
	if _, err := h.machine.EnterLowPower("late"); !errors.Is(err, domain.ErrShutdown) {
		t.Errorf("EnterLowPower() error = %v, want ErrShutdown", err)
	}
	if h.machine.State() != domain.StateShuttingDown {
		t.Errorf("state = %v, want shutting_down", h.machine.State())
	}
	if n := len(h.states.States()); n != 1 {
		t.Errorf("notifications = %d, want 1", n)
	}
}

func TestStateMachine_NotificationCarriesSnapshot(t *testing.T) {
	h := newHarness(t)
	h.store.SetMemoryState(domain.MemoryFastLLM)

	if err := h.machine.CompleteBoot(); err != nil {
		t.Fatal(err)
	}

	h.states.mu.Lock()
	got := h.states.events[0]
	h.states.mu.Unlock()

	if !got.IsReady {
		t.Error("snapshot IsReady = false after boot complete")
	}
	if got.MemoryState != domain.MemoryFastLLM {
		t.Errorf("snapshot memory = %v, want fast_llm", got.MemoryState)
	}
}

func TestStateMachine_ConcurrentTransitions(t *testing.T) {
	h := newHarness(t)
	h.setState(domain.StateReady)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = h.machine.ActivateEmergency()
		}()
		go func() {
			defer wg.Done()
			_ = h.machine.DeactivateEmergency()
		}()
	}
	wg.Wait()

	s := h.machine.State()
	if s != domain.StateReady && s != domain.StateEmergency {
		t.Errorf("unexpected final state %v", s)
	}
}

func TestStateMachine_SetMemoryState(t *testing.T) {
	h := newHarness(t)

	if err := h.machine.SetMemoryState(domain.MemoryMedicalLLM); err != nil {
		t.Fatalf("SetMemoryState() error = %v", err)
	}
	if got := h.store.MemoryState(); got != domain.MemoryMedicalLLM {
		t.Errorf("memory = %v, want medical_llm", got)
	}
	if err := h.machine.SetMemoryState("swap"); err == nil {
		t.Error("unknown label accepted")
	}

	h.machine.Shutdown()
	if got := h.store.MemoryState(); got != domain.MemoryIdle {
		t.Errorf("memory after shutdown = %v, want idle", got)
	}
	if err := h.machine.SetMemoryState(domain.MemoryFastLLM); !errors.Is(err, domain.ErrShutdown) {
		t.Errorf("SetMemoryState() after shutdown error = %v, want ErrShutdown", err)
	}
}

func TestStateMachine_ShutdownRacesMemoryState(t *testing.T) {
	for i := 0; i < 50; i++ {
		h := newHarness(t)
		h.setState(domain.StateReady)

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					_ = h.machine.SetMemoryState(domain.MemoryVisionActive)
				}
			}()
		}
		h.machine.Shutdown()
		wg.Wait()

		if got := h.store.MemoryState(); got != domain.MemoryIdle {
			t.Fatalf("memory after shutdown = %v, want idle", got)
		}
		events := h.states.events
		if last := events[len(events)-1]; last.MemoryState != domain.MemoryIdle {
			t.Fatalf("shutdown notification memory = %v, want idle", last.MemoryState)
		}
	}
}
