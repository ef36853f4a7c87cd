// Package mqttstatus publishes companion status to a local MQTT broker so
// that other processes on the device (dashboard, beacon) can follow it.
//
// Topics, relative to the configured prefix:
//
//	<prefix>/status   retained JSON status snapshot after every state change
//	<prefix>/boot     {"step": ..., "boot_id": ...} before every boot step
//	<prefix>/online   retained "online" / "offline"
package mqttstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/companion/pkg/companion"
	"github.com/bft-labs/companion/pkg/log"
)

// Config holds configuration options for the MQTT status publisher.
type Config struct {
	// Broker URL. Default: tcp://127.0.0.1:1883
	Broker string

	// Prefix for all topics. Default: companion
	Prefix string

	// ClientID. Default: companion-<random>
	ClientID string

	Username string
	Password string

	// Timeout bounds connect and each publish. Default: 5 seconds
	Timeout time.Duration

	// QueueSize bounds the messages waiting for the broker. When full, the
	// oldest message is dropped. Default: 64
	QueueSize int

	// Dial replaces the paho client. Default: DialPaho
	Dial Dialer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Broker:    "tcp://127.0.0.1:1883",
		Prefix:    "companion",
		Timeout:   5 * time.Second,
		QueueSize: 64,
	}
}

// BootEvent is the payload published on <prefix>/boot.
type BootEvent struct {
	Step   string `json:"step"`
	BootID string `json:"boot_id"`
}

type outgoing struct {
	topic    string
	retained bool
	payload  []byte
}

// Plugin publishes status snapshots. Controller callbacks only enqueue;
// a single goroutine talks to the broker so a slow or reconnecting broker
// never stalls a state change.
type Plugin struct {
	mu sync.Mutex

	cfg       Config
	publisher Publisher
	logger    companion.Logger
	closed    bool

	queue   chan outgoing
	stop    chan struct{}
	done    chan struct{}
	dropped atomic.Int64
}

// New creates an MQTT status publisher with the given configuration.
func New(cfg Config) *Plugin {
	def := DefaultConfig()
	if cfg.Broker == "" {
		cfg.Broker = def.Broker
	}
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "companion-" + uuid.NewString()[:8]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Dial == nil {
		cfg.Dial = DialPaho
	}
	return &Plugin{cfg: cfg}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "mqttstatus"
}

// StatusTopic returns the topic carrying status snapshots.
func (p *Plugin) StatusTopic() string { return p.cfg.Prefix + "/status" }

// BootTopic returns the topic carrying boot progress.
func (p *Plugin) BootTopic() string { return p.cfg.Prefix + "/boot" }

// Initialize connects to the broker, queues the current status, registers
// the controller callbacks and starts the publishing goroutine.
func (p *Plugin) Initialize(ctx context.Context, cfg companion.PluginConfig) error {
	if cfg.Controller == nil {
		return fmt.Errorf("mqttstatus: controller required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	pub, err := p.cfg.Dial(p.cfg)
	if err != nil {
		return fmt.Errorf("mqttstatus: %w", err)
	}

	p.mu.Lock()
	p.publisher = pub
	p.logger = logger
	p.closed = false
	p.queue = make(chan outgoing, p.cfg.QueueSize)
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(ctx, pub, logger, p.queue, p.stop, p.done)
	p.mu.Unlock()

	if err := p.publishStatus(cfg.Controller.Status()); err != nil {
		logger.Warn("initial status publish failed", log.Err(err))
	}

	cfg.Controller.RegisterStateCallback(p.publishStatus)
	cfg.Controller.RegisterBootCallback(p.publishBoot)

	logger.Info("mqtt status publisher initialized",
		log.String("broker", p.cfg.Broker),
		log.String("prefix", p.cfg.Prefix),
		log.Int("queue", p.cfg.QueueSize))
	return nil
}

// Shutdown flushes queued messages and disconnects from the broker. The
// flush is bounded by ctx. Callbacks registered on the controller become
// no-ops.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed || p.publisher == nil {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.stop)
	pub, done, logger := p.publisher, p.done, p.logger
	p.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("mqtt queue not flushed", log.Err(ctx.Err()))
	}
	if n := p.dropped.Load(); n > 0 {
		logger.Info("mqtt messages dropped while broker was slow", log.Int("dropped", int(n)))
	}
	pub.Close()
	return nil
}

// Dropped returns how many queued messages were discarded to make room.
func (p *Plugin) Dropped() int64 {
	return p.dropped.Load()
}

func (p *Plugin) publishStatus(status companion.Status) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	p.enqueue(outgoing{topic: p.StatusTopic(), retained: true, payload: payload})
	return nil
}

func (p *Plugin) publishBoot(step string, boot companion.BootStatus) error {
	payload, err := json.Marshal(BootEvent{Step: step, BootID: boot.BootID})
	if err != nil {
		return fmt.Errorf("encode boot event: %w", err)
	}
	p.enqueue(outgoing{topic: p.BootTopic(), payload: payload})
	return nil
}

// enqueue never blocks. A full queue loses its oldest message; the status
// topic is retained so the next snapshot supersedes it.
func (p *Plugin) enqueue(m outgoing) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.queue == nil {
		return
	}
	for {
		select {
		case p.queue <- m:
			return
		default:
		}
		select {
		case <-p.queue:
			p.dropped.Add(1)
		default:
		}
	}
}

func (p *Plugin) run(ctx context.Context, pub Publisher, logger companion.Logger, queue <-chan outgoing, stop, done chan struct{}) {
	defer close(done)

	send := func(m outgoing) {
		if err := pub.Publish(m.topic, 1, m.retained, m.payload); err != nil {
			logger.Warn("mqtt publish failed", log.String("topic", m.topic), log.Err(err))
		}
	}
	flush := func() {
		for {
			select {
			case m := <-queue:
				send(m)
			default:
				return
			}
		}
	}

	for {
		select {
		case m := <-queue:
			send(m)
		case <-stop:
			flush()
			return
		case <-ctx.Done():
			flush()
			return
		}
	}
}

var _ companion.Plugin = (*Plugin)(nil)
