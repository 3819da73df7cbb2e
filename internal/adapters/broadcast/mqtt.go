// Package broadcast pushes desk metrics to subscribers over MQTT.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"sportsdesk/internal/domain/metrics"
)

// DefaultTopic is where metrics snapshots are published.
const DefaultTopic = "sportsdesk/metrics"

// publishTimeout bounds how long Publish waits for the broker to acknowledge.
const publishTimeout = 5 * time.Second

// Payload is the retained message body.
type Payload struct {
	metrics.Metrics
	Generation  uint64    `json:"generation"`
	PublishedAt time.Time `json:"publishedAt"`
}

// publisher is the slice of mqtt.Client the publisher needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher publishes retained metrics snapshots.
type MQTTPublisher struct {
	client publisher
	topic  string
	now    func() time.Time
}

// Options configures Dial.
type Options struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Topic    string
}

// Dial connects to the broker and returns a publisher plus a disconnect func.
// PRE: opts.Broker is a valid broker URL
// POST: The client auto-reconnects; call the returned func on shutdown
func Dial(opts Options) (*MQTTPublisher, func(), error) {
	if opts.ClientID == "" {
		opts.ClientID = fmt.Sprintf("sportsdesk-%d", time.Now().UnixNano())
	}
	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(publishTimeout)
	clientOpts = clientOpts.SetOrderMatters(false)

	client := mqtt.NewClient(clientOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("connect to broker %s: %w", opts.Broker, token.Error())
	}
	slog.Info("mqtt_connected", "broker", opts.Broker, "client_id", opts.ClientID)
	return NewMQTTPublisher(client, opts.Topic), func() { client.Disconnect(250) }, nil
}

// NewMQTTPublisher wraps an already connected client. Empty topic selects DefaultTopic.
func NewMQTTPublisher(client publisher, topic string) *MQTTPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTPublisher{client: client, topic: topic, now: time.Now}
}

// Publish sends m as a retained QoS 1 message.
// PRE: none
// POST: Returns an error if the broker did not acknowledge in time or ctx ended first
func (p *MQTTPublisher) Publish(ctx context.Context, generation uint64, m metrics.Metrics) error {
	data, err := json.Marshal(Payload{Metrics: m, Generation: generation, PublishedAt: p.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}

	token := p.client.Publish(p.topic, 1, true, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish %s: timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", p.topic, err)
	}
	return nil
}

// NoopPublisher drops every snapshot.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, uint64, metrics.Metrics) error { return nil }
