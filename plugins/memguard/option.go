package memguard

import "github.com/bft-labs/companion/pkg/companion"

// WithMemoryGuard returns a companion Option that enables the memory guard.
func WithMemoryGuard(cfg Config) companion.Option {
	return companion.WithPlugin(New(cfg))
}
