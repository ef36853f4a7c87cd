// Package batterywatch feeds fuel-gauge readings into the companion
// controller. It watches a file holding an integer battery percentage and
// calls SetBatteryLevel whenever the file is written.
package batterywatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/companion/pkg/companion"
	"github.com/bft-labs/companion/pkg/log"
)

// DefaultPath is where the fuel-gauge daemon publishes the battery level.
const DefaultPath = "/run/companion/battery"

// Sink receives battery readings. *companion.Controller satisfies it.
type Sink interface {
	SetBatteryLevel(level int)
}

// Plugin watches the battery file.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	path          string
	debounceDelay time.Duration

	// Runtime state
	sink     Sink
	logger   companion.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the battery watcher.
type Config struct {
	// Path is the battery file. Default: DefaultPath
	Path string

	// DebounceDelay is the delay to wait after a write before reading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// Sink overrides the destination of readings. Default: the controller
	// passed to Initialize.
	Sink Sink
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Path:          DefaultPath,
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a battery watcher with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
		sink:          cfg.Sink,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "batterywatch"
}

// Initialize reads the current level and starts watching for changes.
func (p *Plugin) Initialize(ctx context.Context, cfg companion.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	if p.sink == nil && cfg.Controller != nil {
		p.sink = cfg.Controller
	}
	p.mu.Unlock()

	if p.sink == nil {
		return fmt.Errorf("batterywatch: no sink for readings")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("batterywatch: create watcher: %w", err)
	}
	// The directory is watched so the file may be created after start.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("batterywatch: watch %s: %w", filepath.Dir(p.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.apply()
	p.logger.Info("battery watcher initialized", log.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)
	return nil
}

// Shutdown stops the watcher and waits for it to exit.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceRead(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("battery watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceRead(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.apply()
	})
}

// apply reads the file and forwards the level. Errors are logged.
func (p *Plugin) apply() {
	level, err := ReadLevel(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			p.logger.Debug("battery file not present", log.String("path", p.path))
			return
		}
		p.logger.Warn("ignoring battery reading", log.String("path", p.path), log.Err(err))
		return
	}
	p.logger.Debug("battery reading", log.Int("battery", level))
	p.sink.SetBatteryLevel(level)
}

// ReadLevel parses the integer percentage stored at path.
func ReadLevel(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(data))
	level, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parse battery level %q: %w", text, err)
	}
	return level, nil
}

var _ companion.Plugin = (*Plugin)(nil)
