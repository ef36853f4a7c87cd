// Package statusfile keeps the latest controller status on disk so a new
// session can tell how the previous one ended.
package statusfile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/companion/pkg/companion"
	"github.com/bft-labs/companion/pkg/log"
)

// DefaultDir holds status.json when no directory is configured.
const DefaultDir = "/var/lib/companion"

// Config holds configuration options for the status file.
type Config struct {
	// Dir is the directory of status.json. Default: DefaultDir
	Dir string

	// Now is the clock used for SavedAt. Default: time.Now
	Now func() time.Time
}

// Plugin persists every state change.
type Plugin struct {
	mu sync.Mutex

	repo   *Repository
	now    func() time.Time
	logger companion.Logger

	previous Record
	closed   bool
}

// New creates a status file plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Plugin{
		repo: NewRepository(cfg.Dir),
		now:  cfg.Now,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "statusfile"
}

// Initialize loads the previous record, saves the current status and
// registers for state changes. An unreadable previous record is logged and
// replaced.
func (p *Plugin) Initialize(ctx context.Context, cfg companion.PluginConfig) error {
	if cfg.Controller == nil {
		return fmt.Errorf("statusfile: controller required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	prev, err := p.repo.Load()
	if err != nil {
		logger.Warn("previous status unreadable",
			log.String("path", p.repo.Path()), log.Err(err))
		prev = Record{}
	}

	p.mu.Lock()
	p.logger = logger
	p.previous = prev
	p.closed = false
	p.mu.Unlock()

	switch {
	case prev.IsEmpty():
		logger.Info("no previous status", log.String("path", p.repo.Path()))
	case prev.Clean():
		logger.Info("previous session shut down cleanly",
			log.String("boot_id", prev.Status.Boot.BootID))
	default:
		logger.Warn("previous session ended without shutdown",
			log.String("state", prev.Status.State.String()),
			log.String("boot_id", prev.Status.Boot.BootID),
			log.String("saved_at", prev.SavedAt.Format(time.RFC3339)))
	}

	if err := p.save(cfg.Controller.Status()); err != nil {
		return fmt.Errorf("statusfile: %w", err)
	}
	cfg.Controller.RegisterStateCallback(p.save)
	return nil
}

// Shutdown stops persisting. The last saved record stays on disk.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// Previous returns the record found by Initialize.
func (p *Plugin) Previous() Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.previous
}

func (p *Plugin) save(status companion.Status) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	return p.repo.Save(Record{Status: status, SavedAt: p.now()})
}

var _ companion.Plugin = (*Plugin)(nil)
