//go:build !linux

package i2c

import (
	"fmt"

	"github.com/bft-labs/companion/internal/domain"
)

// Bus is unavailable outside Linux.
type Bus struct{}

// Open always fails with domain.ErrBusUnavailable.
func Open(path string) (*Bus, error) {
	return nil, fmt.Errorf("open %s: %w", path, domain.ErrBusUnavailable)
}

// Probe always fails.
func (*Bus) Probe(addr uint16) error {
	return fmt.Errorf("probe 0x%02X: %w", addr, domain.ErrBusUnavailable)
}

// Close is a no-op.
func (*Bus) Close() error {
	return nil
}
