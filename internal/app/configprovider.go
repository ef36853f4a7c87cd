package app

import (
	"sync"

	"github.com/bft-labs/companion/internal/config"
	"github.com/bft-labs/companion/internal/ports"
)

// ConfigProvider resolves and holds the active configuration.
type ConfigProvider struct {
	mu     sync.RWMutex
	path   string
	fixed  bool
	cfg    config.Config
	logger ports.Logger
}

// NewConfigProvider loads the configuration at path immediately.
func NewConfigProvider(path string, logger ports.Logger) *ConfigProvider {
	p := &ConfigProvider{path: path, logger: logger}
	p.Load()
	return p
}

// NewFixedConfigProvider serves cfg without ever touching the file system.
func NewFixedConfigProvider(cfg config.Config, logger ports.Logger) *ConfigProvider {
	for _, w := range cfg.Validate() {
		logger.Warn("config value repaired", ports.String("detail", w))
	}
	return &ConfigProvider{fixed: true, cfg: cfg, logger: logger}
}

// Load re-resolves the configuration. Problems are logged, never returned.
func (p *ConfigProvider) Load() config.Config {
	if p.fixed {
		return p.Current()
	}

	res := config.Load(p.path)
	switch {
	case res.Err != nil:
		p.logger.Error("error loading config, using defaults",
			ports.String("path", p.path), ports.Err(res.Err))
	case res.Source == config.SourceDefaults:
		p.logger.Warn("config file not found, using defaults", ports.String("path", p.path))
	default:
		p.logger.Info("loaded configuration", ports.String("path", p.path))
	}
	for _, w := range res.Warnings {
		p.logger.Warn("config value ignored", ports.String("detail", w))
	}

	p.mu.Lock()
	p.cfg = res.Config
	p.mu.Unlock()
	return res.Config
}

// Current returns the active configuration.
func (p *ConfigProvider) Current() config.Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}
