package mqttstatus

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher is the subset of an MQTT client used by the plugin.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Close()
}

// Dialer connects a Publisher for cfg.
type Dialer func(cfg Config) (Publisher, error)

// pahoPublisher wraps a paho client.
type pahoPublisher struct {
	client  mqtt.Client
	timeout time.Duration
	online  string
}

// DialPaho connects to cfg.Broker with a retained "offline" last will on
// <prefix>/online and announces "online" once connected.
func DialPaho(cfg Config) (Publisher, error) {
	online := cfg.Prefix + "/online"

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(cfg.Timeout)
	opts.SetWill(online, "offline", 1, true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("connect to %s: timed out after %s", cfg.Broker, cfg.Timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}

	p := &pahoPublisher{client: client, timeout: cfg.Timeout, online: online}
	if err := p.Publish(online, 1, true, []byte("online")); err != nil {
		client.Disconnect(250)
		return nil, err
	}
	return p, nil
}

func (p *pahoPublisher) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close marks the device offline and disconnects.
func (p *pahoPublisher) Close() {
	_ = p.Publish(p.online, 1, true, []byte("offline"))
	p.client.Disconnect(250)
}
