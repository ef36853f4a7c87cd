package companion

import "context"

// Plugin extends the controller with optional behavior.
type Plugin interface {
	// Name returns the plugin identifier used in logs.
	Name() string

	// Initialize is called by Controller.Start. Long-running work must be
	// started in a goroutine bound to ctx.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called by Controller.Close and must wait for that work.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to plugins on Initialize.
type PluginConfig struct {
	Controller *Controller
	Config     Config
	Logger     Logger
}
