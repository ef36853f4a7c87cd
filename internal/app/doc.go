// Package app contains the controller core: the boot orchestrator, the
// system state machine, the power manager, and the observer registry they
// report through.
//
// All types here depend only on internal/domain, internal/config and the
// interfaces in internal/ports. Hardware access happens through injected
// drivers.
package app
