package console

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bft-labs/companion/pkg/companion"
)

func newController(t *testing.T) *companion.Controller {
	t.Helper()
	c, err := companion.New(
		companion.WithConfig(companion.DefaultConfig()),
		companion.WithStepDelay(0),
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func run(t *testing.T, c *companion.Controller, line string) (string, bool) {
	t.Helper()
	var buf bytes.Buffer
	quit := Execute(context.Background(), c, &buf, line)
	return buf.String(), quit
}

func TestExecute_BootAndStatus(t *testing.T) {
	c := newController(t)

	out, _ := run(t, c, "boot")
	if !strings.Contains(out, "boot complete: true") {
		t.Fatalf("boot output = %q", out)
	}

	out, _ = run(t, c, "status")
	for _, want := range []string{"State:      ready", "BME280 (Environment) at 0x76", "Battery:    100%"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}

	out, _ = run(t, c, "status json")
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("status json not valid: %v", err)
	}
	if decoded["state"] != "ready" {
		t.Errorf("state = %v", decoded["state"])
	}
}

func TestExecute_Battery(t *testing.T) {
	c := newController(t)
	run(t, c, "boot")

	out, _ := run(t, c, "battery 15")
	if !strings.Contains(out, "state low_power") {
		t.Errorf("battery output = %q", out)
	}

	out, _ = run(t, c, "battery lots")
	if !strings.Contains(out, "invalid battery level") {
		t.Errorf("battery output = %q", out)
	}

	out, _ = run(t, c, "battery")
	if !strings.Contains(out, "usage") {
		t.Errorf("battery output = %q", out)
	}
}

func TestExecute_Emergency(t *testing.T) {
	c := newController(t)
	run(t, c, "boot")

	if out, _ := run(t, c, "sos"); strings.TrimSpace(out) != "ok" {
		t.Errorf("sos output = %q", out)
	}
	if c.State() != companion.StateEmergency {
		t.Errorf("state = %v", c.State())
	}
	if out, _ := run(t, c, "emergency off"); strings.TrimSpace(out) != "ok" {
		t.Errorf("emergency off output = %q", out)
	}
	if out, _ := run(t, c, "emergency off"); !strings.HasPrefix(out, "error:") {
		t.Errorf("second emergency off output = %q", out)
	}

	run(t, c, "shutdown")
	if out, _ := run(t, c, "sos"); !strings.HasPrefix(out, "error:") {
		t.Errorf("sos after shutdown output = %q", out)
	}
}

func TestExecute_ShutdownQuits(t *testing.T) {
	c := newController(t)

	_, quit := run(t, c, "shutdown")
	if !quit {
		t.Error("shutdown did not quit")
	}
	if c.State() != companion.StateShuttingDown {
		t.Errorf("state = %v", c.State())
	}
}

func TestExecute_Misc(t *testing.T) {
	c := newController(t)

	if out, quit := run(t, c, ""); out != "" || quit {
		t.Errorf("empty line = %q, %v", out, quit)
	}
	if out, _ := run(t, c, "dance"); !strings.Contains(out, "Unknown command: dance") {
		t.Errorf("unknown output = %q", out)
	}
	if out, _ := run(t, c, "memory fast_llm"); strings.TrimSpace(out) != "ok" {
		t.Errorf("memory output = %q", out)
	}
	if out, _ := run(t, c, "memory swap"); !strings.HasPrefix(out, "error:") {
		t.Errorf("memory output = %q", out)
	}
	if _, quit := run(t, c, "quit"); !quit {
		t.Error("quit did not quit")
	}
}
