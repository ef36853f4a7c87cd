package domain

import "errors"

// Domain errors returned by the controller API. Check them with errors.Is.
var (
	// ErrInvalidTransition is returned when a state change is not allowed
	// from the current state.
	ErrInvalidTransition = errors.New("companion: invalid state transition")

	// ErrShutdown is returned for any transition requested after shutdown.
	// A new controller is required to run again.
	ErrShutdown = errors.New("companion: shutting down")

	// ErrBootInProgress is returned when Boot is called while another boot runs.
	ErrBootInProgress = errors.New("companion: boot in progress")

	// ErrAlreadyBooted is returned when Boot is called after the system left BOOTING.
	ErrAlreadyBooted = errors.New("companion: already booted")

	// ErrBusUnavailable is returned when the I2C bus driver cannot be opened.
	ErrBusUnavailable = errors.New("companion: bus unavailable")

	// ErrDeviceNotFound is returned when a bus address does not answer.
	ErrDeviceNotFound = errors.New("companion: device not found")
)
