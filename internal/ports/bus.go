package ports

// BusProber probes device addresses on an open bus.
type BusProber interface {
	// Probe returns nil if a device answers at addr.
	Probe(addr uint16) error

	// Close releases the bus.
	Close() error
}

// BusOpener opens the numbered bus. It returns an error wrapping
// domain.ErrBusUnavailable when no bus driver is present.
type BusOpener func(bus int) (BusProber, error)
