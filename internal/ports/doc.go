// Package ports defines the interfaces that connect the controller core to
// hardware drivers and infrastructure adapters.
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) implement them against real hardware, and
// tests replace them with fakes.
//
// # Port Interfaces
//
//   - [Subsystem]: an idempotent driver initialization (display, GPS, LLM, ...)
//   - [BusProber]: probes addresses on an I2C bus
//   - [BusOpener]: opens a numbered bus
//   - [HardwareDetector]: reports whether the target board is present
//   - [Logger]: structured logging abstraction
package ports
