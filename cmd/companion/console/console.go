// Package console provides the interactive operator console of the
// companion command.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/bft-labs/companion/pkg/companion"
)

// Console reads operator commands and applies them to a controller.
type Console struct {
	rl *readline.Instance
}

// New creates a console on the terminal.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "companion> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl}, nil
}

// Stdout returns a writer that coordinates with the prompt. Use it for log
// output while the console runs.
func (con *Console) Stdout() io.Writer {
	return con.rl.Stdout()
}

// Run reads commands for c until exit or EOF, or until ctx is done.
func (con *Console) Run(ctx context.Context, c *companion.Controller) {
	defer con.rl.Close()

	out := con.rl.Stdout()
	printHelp(out)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := con.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			return
		}

		if quit := Execute(ctx, c, out, line); quit {
			return
		}
	}
}

// Execute runs a single command line against c and reports whether the
// console should exit.
func Execute(ctx context.Context, c *companion.Controller, out io.Writer, line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		printHelp(out)

	case "status", "s":
		if len(args) > 0 && args[0] == "json" {
			printJSON(out, c.Status())
		} else {
			PrintStatus(out, c.Status())
		}

	case "boot":
		simulate := len(args) == 0 || args[0] != "hw"
		ok, err := c.Boot(ctx, simulate)
		report(out, err)
		if err == nil {
			fmt.Fprintf(out, "boot complete: %v\n", ok)
		}

	case "battery", "b":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: battery <percent>")
			return false
		}
		level, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(out, "invalid battery level %q\n", args[0])
			return false
		}
		c.SetBatteryLevel(level)
		fmt.Fprintf(out, "battery %d%%, state %s\n", c.Status().Boot.Battery, c.State())

	case "emergency", "sos":
		if len(args) > 0 && args[0] == "off" {
			report(out, c.DeactivateEmergency())
		} else {
			report(out, c.ActivateEmergency())
		}

	case "voice":
		report(out, c.BeginActivity(companion.StateActiveVoice))

	case "vision":
		report(out, c.BeginActivity(companion.StateActiveVision))

	case "done":
		report(out, c.EndActivity())

	case "memory", "mem":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: memory <idle|fast_llm|medical_llm|vision_active>")
			return false
		}
		report(out, c.SetMemoryState(companion.MemoryState(args[0])))

	case "shutdown":
		report(out, c.Shutdown())
		return true

	case "quit", "exit", "q":
		fmt.Fprintln(out, "Exiting...")
		return true

	default:
		fmt.Fprintf(out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func printJSON(out io.Writer, s companion.Status) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(out, string(b))
}

func report(out io.Writer, err error) {
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(out, "ok")
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `
Companion Commands:
  status [json]      - Show controller status
  boot [hw]          - Run the boot sequence (simulated unless hw)
  battery <percent>  - Report a battery reading
  emergency [off]    - Enter or leave emergency mode
  voice | vision     - Start a voice or vision interaction
  done               - Finish the current interaction
  memory <label>     - Set the memory state label
  shutdown           - Shut down and exit
  help               - Show this help
  quit               - Exit the console`)
}
