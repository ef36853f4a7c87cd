// Package memguard watches system memory against the companion's RAM budget
// (memory.max_ram_usage_mb). Crossing the budget is logged once per
// crossing together with the memory label the controller reports.
package memguard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bft-labs/companion/pkg/companion"
	"github.com/bft-labs/companion/pkg/log"
)

// Sample is one memory reading in bytes.
type Sample struct {
	Total uint64
	Used  uint64
}

// Sampler takes a memory reading.
type Sampler func() (Sample, error)

// Plugin samples memory usage periodically.
type Plugin struct {
	mu sync.RWMutex

	// Configuration
	interval time.Duration
	budgetMB int
	sampler  Sampler

	// Runtime state
	controller *companion.Controller
	logger     companion.Logger
	last       Sample
	sampled    bool
	over       bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// Config holds configuration options for the memory guard.
type Config struct {
	// Interval between samples. Default: 30 seconds
	Interval time.Duration

	// BudgetMB overrides memory.max_ram_usage_mb when positive.
	BudgetMB int

	// Sampler replaces the system reading. Default: SystemSampler()
	Sampler Sampler
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{Interval: 30 * time.Second}
}

// New creates a memory guard with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Sampler == nil {
		cfg.Sampler = SystemSampler()
	}
	return &Plugin{
		interval: cfg.Interval,
		budgetMB: cfg.BudgetMB,
		sampler:  cfg.Sampler,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "memguard"
}

// Initialize takes a first sample and starts the sampling loop.
func (p *Plugin) Initialize(ctx context.Context, cfg companion.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	p.controller = cfg.Controller
	if p.budgetMB <= 0 {
		p.budgetMB = cfg.Config.Memory.MaxRAMUsageMB
	}
	budget := p.budgetMB
	p.mu.Unlock()

	if budget <= 0 {
		return fmt.Errorf("memguard: no memory budget configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.Check()
	p.logger.Info("memory guard initialized",
		log.Int("budget_mb", budget),
		log.Duration("interval", p.interval))

	p.wg.Add(1)
	go p.loop(runCtx)
	return nil
}

// Shutdown stops sampling.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

func (p *Plugin) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check()
		}
	}
}

// Check takes a sample now and logs budget crossings.
func (p *Plugin) Check() {
	s, err := p.sampler()
	if err != nil {
		p.logger.Debug("memory sample failed", log.Err(err))
		return
	}

	p.mu.Lock()
	budget := uint64(p.budgetMB) * 1024 * 1024
	over := s.Used > budget
	crossed := over != p.over
	p.last = s
	p.sampled = true
	p.over = over
	p.mu.Unlock()

	if !crossed {
		return
	}

	fields := []log.Field{
		log.String("used", humanize.IBytes(s.Used)),
		log.String("total", humanize.IBytes(s.Total)),
		log.String("budget", humanize.IBytes(budget)),
	}
	if p.controller != nil {
		fields = append(fields, log.String("memory_state", p.controller.Status().MemoryState.String()))
	}
	if over {
		p.logger.Warn("memory budget exceeded", fields...)
	} else {
		p.logger.Info("memory back within budget", fields...)
	}
}

// WithinBudget reports whether the last sample was within budget. It is
// true until a sample has been taken.
func (p *Plugin) WithinBudget() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.over
}

// LastSample returns the most recent reading.
func (p *Plugin) LastSample() (Sample, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.sampled
}

var _ companion.Plugin = (*Plugin)(nil)
