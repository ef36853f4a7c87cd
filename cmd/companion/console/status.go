package console

import (
	"fmt"
	"io"
	"time"

	"github.com/bft-labs/companion/pkg/companion"
)

// PrintStatus writes a human-readable status summary.
func PrintStatus(out io.Writer, s companion.Status) {
	b := s.Boot

	fmt.Fprintf(out, "State:      %s (ready: %v)\n", s.State, s.IsReady)
	fmt.Fprintf(out, "Memory:     %s\n", s.MemoryState)
	fmt.Fprintf(out, "Battery:    %d%%\n", b.Battery)
	if b.BootID != "" {
		fmt.Fprintf(out, "Boot:       %s in %s\n", b.BootID,
			(time.Duration(b.BootTimeSeconds * float64(time.Second))).Round(time.Millisecond))
	}
	fmt.Fprintf(out, "Subsystems: display=%s sensors=%s gps=%s llm=%s wake=%s dashboard=%s\n",
		mark(b.Display), mark(b.Sensors), mark(b.GPS), mark(b.LLMReady), mark(b.WakeWord), mark(b.Dashboard))
	fmt.Fprintf(out, "GPS fix:    %s\n", mark(b.GPSFix))

	if len(b.I2CDevices) > 0 {
		fmt.Fprintln(out, "I2C devices:")
		for _, d := range b.I2CDevices {
			fmt.Fprintf(out, "  - %s\n", d)
		}
	}
	if len(b.Errors) > 0 {
		fmt.Fprintln(out, "Errors:")
		for _, e := range b.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}
}

func mark(ok bool) string {
	if ok {
		return "ok"
	}
	return "--"
}
