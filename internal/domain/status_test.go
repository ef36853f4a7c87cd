package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewBootStatus_Defaults(t *testing.T) {
	b := NewBootStatus()

	if b.BatteryLevel != 100 {
		t.Errorf("BatteryLevel = %d, want 100", b.BatteryLevel)
	}
	if b.Complete() {
		t.Error("Complete() = true for a fresh status")
	}
	if b.BootDuration() != 0 {
		t.Errorf("BootDuration() = %v, want 0", b.BootDuration())
	}
	if b.Errors == nil || b.I2CDevicesDetected == nil {
		t.Error("slices should be non-nil so snapshots encode as []")
	}
}

func TestBootStatus_Clone(t *testing.T) {
	b := NewBootStatus()
	b.Errors = append(b.Errors, "first")
	b.I2CDevicesDetected = append(b.I2CDevicesDetected, "dev")

	c := b.Clone()
	c.Errors[0] = "changed"
	c.I2CDevicesDetected = append(c.I2CDevicesDetected, "other")

	if b.Errors[0] != "first" {
		t.Errorf("original Errors mutated through clone: %v", b.Errors)
	}
	if len(b.I2CDevicesDetected) != 1 {
		t.Errorf("original devices = %v, want 1 entry", b.I2CDevicesDetected)
	}
}

func TestBootStatus_BootDuration(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBootStatus()
	b.BootStartTime = start
	b.BootCompleteTime = start.Add(2500 * time.Millisecond)

	if !b.Complete() {
		t.Fatal("Complete() = false after completion time set")
	}
	if b.BootDuration() != 2500*time.Millisecond {
		t.Errorf("BootDuration() = %v, want 2.5s", b.BootDuration())
	}
}

func TestClampBattery(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-50, 0},
		{-1, 0},
		{0, 0},
		{15, 15},
		{100, 100},
		{101, 100},
		{1000, 100},
	}

	for _, tt := range tests {
		if got := ClampBattery(tt.in); got != tt.want {
			t.Errorf("ClampBattery(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSystemState_Valid(t *testing.T) {
	for _, s := range []SystemState{
		StateBooting, StateInitializing, StateReady, StateActiveVoice,
		StateActiveVision, StateEmergency, StateLowPower, StateShuttingDown,
	} {
		if !s.Valid() {
			t.Errorf("%q.Valid() = false", s)
		}
	}
	if SystemState("sleeping").Valid() {
		t.Error("unknown state reported valid")
	}
	if !StateShuttingDown.Terminal() || StateReady.Terminal() {
		t.Error("only shutting_down is terminal")
	}
}

func TestNewStatus_JSONShape(t *testing.T) {
	boot := NewBootStatus()
	boot.DashboardReady = true
	boot.BatteryLevel = 42
	sensors := SensorStatus{BME280Connected: true, Latitude: -33.8688}

	st := NewStatus(StateReady, MemoryIdle, boot, sensors)
	if !st.IsReady {
		t.Error("IsReady = false for ready state")
	}

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if m["state"] != "ready" {
		t.Errorf("state = %v, want ready", m["state"])
	}
	if m["memory_state"] != "idle" {
		t.Errorf("memory_state = %v, want idle", m["memory_state"])
	}
	sensorsMap, ok := m["sensors"].(map[string]any)
	if !ok || sensorsMap["bme280"] != true {
		t.Errorf("sensors.bme280 = %v, want true", m["sensors"])
	}
	bootMap, ok := m["boot_status"].(map[string]any)
	if !ok {
		t.Fatalf("boot_status missing: %v", m)
	}
	if bootMap["battery"] != float64(42) {
		t.Errorf("boot_status.battery = %v, want 42", bootMap["battery"])
	}
	if _, ok := bootMap["errors"].([]any); !ok {
		t.Errorf("boot_status.errors = %v, want array", bootMap["errors"])
	}
}

func TestNewStatus_CopiesSlices(t *testing.T) {
	boot := NewBootStatus()
	boot.Errors = append(boot.Errors, "Error during 'init-gps': boom")

	st := NewStatus(StateBooting, MemoryIdle, boot, SensorStatus{})
	boot.Errors[0] = "mutated"

	if st.Boot.Errors[0] == "mutated" {
		t.Error("snapshot shares Errors with live record")
	}
	if st.IsReady {
		t.Error("IsReady = true while booting")
	}
}
