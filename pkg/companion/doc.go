// Package companion provides the embeddable device controller of the
// survival companion.
//
// The controller sequences subsystem bring-up ("boot"), tracks the coarse
// operational state of the device and reacts to battery changes. Drivers for
// real hardware are injected; without them every step runs in simulate mode.
//
// # Basic Usage
//
//	c, err := companion.New(companion.WithConfigPath("config/companion.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c.RegisterBootCallback(func(step string, boot companion.BootStatus) error {
//	    fmt.Println("boot step:", step)
//	    return nil
//	})
//
//	ok, err := c.Boot(ctx, true)
//	if err != nil || !ok {
//	    log.Fatal("boot failed")
//	}
//
//	fmt.Println(c.Status().IsReady)
//
// # States
//
// The device starts in [StateBooting] and moves to [StateReady] once the
// dashboard is up. [Controller.ActivateEmergency], battery readings below the
// low threshold and [Controller.Shutdown] move it further. [StateShuttingDown]
// is terminal: every later transition returns [ErrShutdown].
//
// # Callbacks
//
// State callbacks receive a full [Status] snapshot after every applied
// transition. Boot callbacks receive the step name before each step runs.
// Callbacks are called synchronously; an error or panic is logged and never
// reaches the caller.
//
// # Plugins
//
// Plugins registered with [WithPlugin] are initialized by [Controller.Start]
// in registration order and shut down by [Controller.Close] in reverse order.
package companion
