package companion_test

import (
	"context"
	"fmt"

	"github.com/bft-labs/companion/pkg/companion"
)

// ExampleNew boots the controller in simulate mode.
func ExampleNew() {
	c, err := companion.New(
		companion.WithConfig(companion.DefaultConfig()),
		companion.WithStepDelay(0),
	)
	if err != nil {
		fmt.Printf("failed to create controller: %v\n", err)
		return
	}

	ok, err := c.Boot(context.Background(), true)
	if err != nil {
		fmt.Printf("boot error: %v\n", err)
		return
	}

	fmt.Println("booted:", ok)
	fmt.Println("state:", c.State())
	// Output:
	// booted: true
	// state: ready
}

// Example_battery shows the low-power reaction to a battery reading.
func Example_battery() {
	c, _ := companion.New(
		companion.WithConfig(companion.DefaultConfig()),
		companion.WithStepDelay(0),
	)
	_, _ = c.Boot(context.Background(), true)

	c.RegisterStateCallback(func(s companion.Status) error {
		fmt.Println("state changed:", s.State)
		return nil
	})

	c.SetBatteryLevel(5)
	c.SetBatteryLevel(15)
	c.SetBatteryLevel(15)
	fmt.Println("battery:", c.Status().Boot.Battery)
	// Output:
	// state changed: low_power
	// battery: 15
}
