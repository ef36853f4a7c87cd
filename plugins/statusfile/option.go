package statusfile

import "github.com/bft-labs/companion/pkg/companion"

// WithStatusFile returns a companion Option that persists status snapshots.
func WithStatusFile(cfg Config) companion.Option {
	return companion.WithPlugin(New(cfg))
}
