package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/companion/cmd/companion/console"
	"github.com/bft-labs/companion/internal/cliconfig"
	"github.com/bft-labs/companion/pkg/companion"
	"github.com/bft-labs/companion/pkg/log"
	"github.com/bft-labs/companion/plugins/batterywatch"
	"github.com/bft-labs/companion/plugins/memguard"
	"github.com/bft-labs/companion/plugins/mqttstatus"
	"github.com/bft-labs/companion/plugins/statusfile"
)

const helpBanner = `
  ___  ___  _ __ ___  _ __   __ _ _ __ (_) ___  _ __
 / __|/ _ \| '_ ` + "`" + ` _ \| '_ \ / _` + "`" + ` | '_ \| |/ _ \| '_ \
| (__| (_) | | | | | | |_) | (_| | | | | | (_) | | | |
 \___|\___/|_| |_| |_| .__/ \__,_|_| |_|_|\___/|_| |_|
                     |_|
`

const helpDescription = `
Boot and supervise an offline survival companion.

Highlights:
  - Brings up display, sensors, GPS, local models and the dashboard in order.
  - Runs the full sequence in simulation when no board is detected.
  - Drops to low power on a weak battery; emergency mode overrides everything.
  - Optional battery file watch, memory guard and MQTT status publishing.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  companion --simulate --console
  companion --config /etc/companion/config.yaml --battery-file /run/companion/battery
  companion --settings $HOME/.companion/cli.toml --mqtt-broker tcp://127.0.0.1:1883
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var settingsPath string

	root := &cobra.Command{
		Use:          "companion",
		Short:        "Boot and supervise an offline survival companion",
		Long:         longHelp,
		Example:      exampleUsage,
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsFile := settingsPath
			if settingsFile == "" {
				settingsFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if settingsFile != "" && cliconfig.FileExists(settingsFile) {
				fc, err := cliconfig.LoadFileConfig(settingsFile)
				if err != nil {
					return fmt.Errorf("load settings: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// COMPANION_* overrides the settings file but never a set flag.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cfg)
		},
	}

	root.Flags().StringVar(&settingsPath, "settings", "", "path to CLI settings file (default: $HOME/.companion/cli.toml)")
	root.Flags().StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "device configuration document")
	root.Flags().BoolVar(&cfg.Simulate, "simulate", cfg.Simulate, "simulate the boot sequence even on real hardware")
	root.Flags().BoolVar(&cfg.Console, "console", cfg.Console, "open the interactive operator console after boot")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().DurationVar(&cfg.StepDelay, "step-delay", cfg.StepDelay, "override the simulated per-step delay (negative keeps the configured value)")
	root.Flags().StringVar(&cfg.BatteryFile, "battery-file", cfg.BatteryFile, "file holding the battery percentage to watch")
	root.Flags().BoolVar(&cfg.MemoryGuard, "memory-guard", cfg.MemoryGuard, "warn when system memory exceeds memory.max_ram_usage_mb")
	root.Flags().StringVar(&cfg.StatusDir, "status-dir", cfg.StatusDir, "directory for status.json (optional)")
	root.Flags().StringVar(&cfg.MQTTBroker, "mqtt-broker", cfg.MQTTBroker, "publish status to this MQTT broker (optional)")
	root.Flags().StringVar(&cfg.MQTTPrefix, "mqtt-prefix", cfg.MQTTPrefix, "MQTT topic prefix")
	if err := root.Flags().MarkHidden("step-delay"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to hide step-delay flag:", err)
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

var errBootFailed = errors.New("boot sequence did not complete")

func run(cfg cliconfig.Config) error {
	var logOut io.Writer = os.Stderr
	var con *console.Console
	if cfg.Console {
		var err error
		con, err = console.New()
		if err != nil {
			return err
		}
		logOut = con.Stdout()
	}

	logger := log.NewZerologAdapterWithWriter(logOut, cfg.LogLevel)
	logger.Info("configuration",
		log.String("config", cfg.ConfigPath),
		log.Bool("simulate", cfg.Simulate),
		log.String("battery_file", cfg.BatteryFile),
		log.Bool("memory_guard", cfg.MemoryGuard),
		log.String("status_dir", cfg.StatusDir),
		log.String("mqtt_broker", cfg.MQTTBroker),
	)

	opts := []companion.Option{
		companion.WithLogger(logger),
		companion.WithConfigPath(cfg.ConfigPath),
	}
	if cfg.HasStepDelay() {
		opts = append(opts, companion.WithStepDelay(cfg.StepDelay))
	}
	if cfg.BatteryFile != "" {
		bc := batterywatch.DefaultConfig()
		bc.Path = cfg.BatteryFile
		opts = append(opts, batterywatch.WithBatteryWatch(bc))
	}
	if cfg.MemoryGuard {
		opts = append(opts, memguard.WithMemoryGuard(memguard.DefaultConfig()))
	}
	if cfg.StatusDir != "" {
		opts = append(opts, statusfile.WithStatusFile(statusfile.Config{Dir: cfg.StatusDir}))
	}
	if cfg.MQTTBroker != "" {
		mc := mqttstatus.DefaultConfig()
		mc.Broker = cfg.MQTTBroker
		mc.Prefix = cfg.MQTTPrefix
		opts = append(opts, mqttstatus.WithMQTTStatus(mc))
	}

	c, err := companion.New(opts...)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("start controller: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("close controller", log.Err(err))
		}
	}()

	ok, err := c.Boot(ctx, cfg.Simulate)
	if err != nil {
		return fmt.Errorf("boot: %w", err)
	}
	printSummary(logOut, c.Status())
	if !ok {
		_ = c.Shutdown()
		return errBootFailed
	}

	if con != nil {
		con.Run(ctx, c)
	} else {
		<-ctx.Done()
		logger.Info("received signal, shutting down")
	}

	return c.Shutdown()
}

func printSummary(out io.Writer, s companion.Status) {
	b := s.Boot
	fmt.Fprintf(out, "\nBoot %s: state %s, %d device(s), %d error(s), finished %s\n",
		b.BootID, s.State, len(b.I2CDevices), len(b.Errors),
		humanize.FtoaWithDigits(b.BootTimeSeconds, 2)+"s")
	for _, e := range b.Errors {
		fmt.Fprintf(out, "  - %s\n", e)
	}
}
