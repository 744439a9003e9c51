package mqtt

import (
	"encoding/json"
	"fmt"
	"net/url"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/wamphlett/status-lights/config"
	"github.com/wamphlett/status-lights/pkg/controller"
	"github.com/wamphlett/status-lights/pkg/logging"
)

var logger = logging.New("mqtt")

// payload represents the JSON payload which is published
type payload struct {
	On         bool   `json:"on"`
	Color      string `json:"color"`
	R          uint8  `json:"r"`
	G          uint8  `json:"g"`
	B          uint8  `json:"b"`
	W          uint8  `json:"w"`
	Brightness uint8  `json:"brightness"`
}

func newPayload(state controller.State) payload {
	c := state.Color
	return payload{
		On:         state.On,
		Color:      fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		R:          c.R,
		G:          c.G,
		B:          c.B,
		W:          c.W,
		Brightness: c.Brightness,
	}
}

// Publisher defines the publisher methods
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

var _ controller.Publisher = (*Publisher)(nil)

// New connects to the configured MQTT broker
func New(cfg *config.MQTTPublisher) (*Publisher, error) {
	options := mqtt.NewClientOptions()
	options.Servers = []*url.URL{
		{
			Scheme: cfg.Scheme,
			Host:   cfg.Host,
		},
	}
	options.SetClientID(cfg.ClientID)
	options.SetAutoReconnect(true)

	client := mqtt.NewClient(options)
	t := client.Connect()
	_ = t.Wait()
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Host, err)
	}

	logger.With("host", cfg.Host).Info("connected to broker")

	return &Publisher{
		client:      client,
		topicPrefix: cfg.TopicPrefix,
	}, nil
}

// Publish publishes a JSON payload to the configured MQTT broker
func (p *Publisher) Publish(event controller.Event, state controller.State) {
	marshaledPayload, err := json.Marshal(newPayload(state))
	if err != nil {
		logger.With("error", err).Error("failed to marshal payload")
		return
	}

	topic := p.topic(event)
	t := p.client.Publish(topic, 1, true, marshaledPayload)

	// Check for errors asynchronously
	go func() {
		_ = t.Wait()
		if t.Error() != nil {
			logger.With("topic", topic, "error", t.Error()).Warn("failed to publish")
		}
	}()
}

// Close disconnects from the broker
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func (p *Publisher) topic(event controller.Event) string {
	return fmt.Sprintf("%s/%s", p.topicPrefix, event)
}
