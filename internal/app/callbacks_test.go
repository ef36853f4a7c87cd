package app

import (
	"errors"
	"testing"

	"github.com/bft-labs/companion/internal/domain"
)

func TestCallbacks_NotifyState_RegistrationOrder(t *testing.T) {
	logger := &mockLogger{}
	c := NewCallbacks(logger)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		c.RegisterState(func(domain.Status) error {
			order = append(order, i)
			return nil
		})
	}

	c.NotifyState(domain.Status{State: domain.StateReady})

	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("call order = %v, want [0 1 2]", order)
	}
}

func TestCallbacks_ObserverIsolation(t *testing.T) {
	logger := &mockLogger{}
	c := NewCallbacks(logger)

	var reached []string
	c.RegisterState(func(domain.Status) error {
		reached = append(reached, "first")
		return errors.New("observer failed")
	})
	c.RegisterState(func(domain.Status) error {
		reached = append(reached, "second")
		panic("observer exploded")
	})
	c.RegisterState(func(domain.Status) error {
		reached = append(reached, "third")
		return nil
	})

	c.NotifyState(domain.Status{})

	if len(reached) != 3 {
		t.Fatalf("reached = %v, want all three observers", reached)
	}
	if got := len(logger.Errors()); got != 2 {
		t.Errorf("logged errors = %d, want 2", got)
	}
}

func TestCallbacks_NotifyBoot(t *testing.T) {
	logger := &mockLogger{}
	c := NewCallbacks(logger)

	boot := domain.NewBootStatus()
	boot.Errors = append(boot.Errors, "original")

	var gotStep string
	c.RegisterBoot(func(step string, b domain.BootStatus) error {
		gotStep = step
		b.Errors[0] = "mutated by observer"
		return nil
	})
	var secondSaw string
	c.RegisterBoot(func(step string, b domain.BootStatus) error {
		secondSaw = b.Errors[0]
		return errors.New("ignored")
	})

	c.NotifyBoot(StepInitGPS, boot)

	if gotStep != StepInitGPS {
		t.Errorf("step = %q, want %q", gotStep, StepInitGPS)
	}
	if secondSaw != "original" {
		t.Errorf("second observer saw %q, want original", secondSaw)
	}
	if boot.Errors[0] != "original" {
		t.Errorf("caller record mutated: %v", boot.Errors)
	}
	if len(logger.Errors()) != 1 {
		t.Errorf("logged errors = %v, want 1", logger.Errors())
	}
}

func TestCallbacks_NilIgnored(t *testing.T) {
	c := NewCallbacks(&mockLogger{})
	c.RegisterState(nil)
	c.RegisterBoot(nil)

	// Must not panic.
	c.NotifyState(domain.Status{})
	c.NotifyBoot(StepLoadDashboard, domain.NewBootStatus())
}
