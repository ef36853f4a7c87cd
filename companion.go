// Package companion is the entry point for embedding the survival companion
// device controller.
//
// Example usage:
//
//	c, err := companion.New(companion.WithConfigPath("config/companion.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok, err := c.Boot(context.Background(), true)
//	if err != nil || !ok {
//	    log.Fatal("boot failed")
//	}
//	fmt.Println(c.Status().State)
//
// The full API lives in github.com/bft-labs/companion/pkg/companion.
package companion

import (
	"context"

	controller "github.com/bft-labs/companion/pkg/companion"
)

// Controller is the device controller.
type Controller = controller.Controller

// Option configures a Controller.
type Option = controller.Option

// Status is an immutable snapshot of the controller.
type Status = controller.Status

// New creates a controller in the booting state. It does not boot.
func New(opts ...Option) (*Controller, error) {
	return controller.New(opts...)
}

// Simulate creates a controller using the default configuration, boots it
// in simulate mode and returns it.
func Simulate(ctx context.Context) (*Controller, bool, error) {
	c, err := controller.New(controller.WithConfig(controller.DefaultConfig()))
	if err != nil {
		return nil, false, err
	}
	ok, err := c.Boot(ctx, true)
	return c, ok, err
}

var (
	WithLogger           = controller.WithLogger
	WithConfigPath       = controller.WithConfigPath
	WithConfig           = controller.WithConfig
	WithDrivers          = controller.WithDrivers
	WithHardwareDetector = controller.WithHardwareDetector
	WithBusOpener        = controller.WithBusOpener
	WithStepDelay        = controller.WithStepDelay
	WithPlugin           = controller.WithPlugin
)
