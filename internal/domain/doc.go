// Package domain contains the core entities and value objects of the
// companion controller.
//
// This package is the innermost layer. It has no dependencies on hardware,
// logging, or configuration loading, and contains only plain records and
// the rules that belong to them.
//
// # Entities
//
//   - [SystemState]: the single operational state of the device
//   - [MemoryState]: which heavy subsystem occupies working memory
//   - [BootStatus]: readiness flags and diagnostics of a boot run
//   - [SensorStatus]: connectivity flags and last known position
//   - [Status]: an immutable snapshot handed to callers and observers
package domain
