//go:build linux

package i2c

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bft-labs/companion/internal/domain"
)

// Bus is an open i2c-dev file descriptor.
type Bus struct {
	mu   sync.Mutex
	path string
	fd   int
}

// Open opens the bus device at path. A missing device or kernel driver
// yields an error wrapping domain.ErrBusUnavailable.
func Open(path string) (*Bus, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENODEV) || errors.Is(err, unix.ENXIO) {
			return nil, fmt.Errorf("open %s: %w: %v", path, domain.ErrBusUnavailable, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Bus{path: path, fd: fd}, nil
}

// Probe selects addr and reads a single byte. A device that does not
// acknowledge yields an error wrapping domain.ErrDeviceNotFound.
func (b *Bus) Probe(addr uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fd < 0 {
		return fmt.Errorf("probe 0x%02X: %w", addr, unix.EBADF)
	}
	if err := unix.IoctlSetInt(b.fd, i2cSlave, int(addr)); err != nil {
		return fmt.Errorf("select 0x%02X on %s: %w", addr, b.path, err)
	}

	buf := make([]byte, 1)
	if _, err := unix.Read(b.fd, buf); err != nil {
		return fmt.Errorf("read 0x%02X on %s: %w: %v", addr, b.path, domain.ErrDeviceNotFound, err)
	}
	return nil
}

// Close releases the descriptor. Calling it twice is safe.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fd < 0 {
		return nil
	}
	err := unix.Close(b.fd)
	b.fd = -1
	return err
}
