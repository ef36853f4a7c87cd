package i2c

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bft-labs/companion/internal/domain"
)

func TestDevicePath(t *testing.T) {
	if got := DevicePath("/dev", 1); got != filepath.Join("/dev", "i2c-1") {
		t.Errorf("DevicePath() = %q", got)
	}
}

func TestOpener_MissingBus(t *testing.T) {
	open := OpenerIn(t.TempDir())

	bus, err := open(3)
	if !errors.Is(err, domain.ErrBusUnavailable) {
		t.Fatalf("open error = %v, want ErrBusUnavailable", err)
	}
	if bus != nil {
		t.Error("expected nil bus on error")
	}
}
