package app

import (
	"fmt"
	"sync"

	"github.com/bft-labs/companion/internal/domain"
	"github.com/bft-labs/companion/internal/ports"
)

// StateCallback observes state changes. It receives a full snapshot.
type StateCallback func(status domain.Status) error

// BootCallback observes boot progress. It is called before each step runs.
type BootCallback func(step string, boot domain.BootStatus) error

// Callbacks is an ordered registry of observers. A failing observer is
// logged and skipped; it never stops later observers or the caller.
type Callbacks struct {
	mu     sync.RWMutex
	state  []StateCallback
	boot   []BootCallback
	logger ports.Logger
}

// NewCallbacks creates an empty registry.
func NewCallbacks(logger ports.Logger) *Callbacks {
	return &Callbacks{logger: logger}
}

// RegisterState appends a state-change observer.
func (c *Callbacks) RegisterState(cb StateCallback) {
	if cb == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = append(c.state, cb)
}

// RegisterBoot appends a boot-progress observer.
func (c *Callbacks) RegisterBoot(cb BootCallback) {
	if cb == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boot = append(c.boot, cb)
}

// NotifyState calls every state observer in registration order.
func (c *Callbacks) NotifyState(status domain.Status) {
	c.mu.RLock()
	observers := append([]StateCallback(nil), c.state...)
	c.mu.RUnlock()

	for i, cb := range observers {
		c.invoke("state", i, func() error { return cb(status) })
	}
}

// NotifyBoot calls every boot observer in registration order.
func (c *Callbacks) NotifyBoot(step string, boot domain.BootStatus) {
	c.mu.RLock()
	observers := append([]BootCallback(nil), c.boot...)
	c.mu.RUnlock()

	for i, cb := range observers {
		// each observer gets its own copy so one cannot mutate another's view
		view := boot.Clone()
		c.invoke("boot", i, func() error { return cb(step, view) })
	}
}

func (c *Callbacks) invoke(kind string, index int, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(kind+" callback panic",
				ports.Int("index", index),
				ports.Err(fmt.Errorf("%v", r)))
		}
	}()

	if err := fn(); err != nil {
		c.logger.Error(kind+" callback error",
			ports.Int("index", index),
			ports.Err(err))
	}
}
