package mqttstatus

import "github.com/bft-labs/companion/pkg/companion"

// WithMQTTStatus returns a companion Option that enables the status publisher.
//
// Usage:
//
//	c, err := companion.New(
//	    mqttstatus.WithMQTTStatus(mqttstatus.Config{Broker: "tcp://127.0.0.1:1883"}),
//	)
func WithMQTTStatus(cfg Config) companion.Option {
	return companion.WithPlugin(New(cfg))
}
