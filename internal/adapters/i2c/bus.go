// Package i2c probes devices on a Linux I2C bus through the i2c-dev interface.
package i2c

import (
	"fmt"
	"path/filepath"

	"github.com/bft-labs/companion/internal/ports"
)

// DefaultDevDir holds the i2c-dev character devices.
const DefaultDevDir = "/dev"

// i2cSlave is the i2c-dev ioctl that selects the target address.
const i2cSlave = 0x0703

// DevicePath returns the character device for the numbered bus in dir.
func DevicePath(dir string, bus int) string {
	return filepath.Join(dir, fmt.Sprintf("i2c-%d", bus))
}

// Opener returns a ports.BusOpener that opens buses under DefaultDevDir.
func Opener() ports.BusOpener {
	return OpenerIn(DefaultDevDir)
}

// OpenerIn returns a ports.BusOpener that opens buses under dir.
func OpenerIn(dir string) ports.BusOpener {
	return func(bus int) (ports.BusProber, error) {
		b, err := Open(DevicePath(dir, bus))
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}
