// Package mqtt publishes rendered screen frames to a broker so lobby displays
// can draw them.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

const publishTimeout = 5 * time.Second

var connectHandler paho.OnConnectHandler = func(client paho.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler paho.ConnectionLostHandler = func(client paho.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// Connect dials the broker with auto-reconnect enabled.
func Connect(brokerURL, clientID, username, password string) (paho.Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

// Topic is where frames for one screen are published.
func Topic(screenID string) string {
	return fmt.Sprintf("screens/%s/frame", screenID)
}

// Publisher renders frames by publishing them as retained JSON messages, so a
// display that reconnects immediately gets the latest frame.
type Publisher struct {
	client paho.Client
	topic  string
}

func NewPublisher(client paho.Client, screenID string) *Publisher {
	return &Publisher{client: client, topic: Topic(screenID)}
}

func (p *Publisher) Render(ctx context.Context, frame model.Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	token := p.client.Publish(p.topic, 1, true, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish frame to %s: %w", p.topic, err)
	}

	log.Debug().Str("topic", p.topic).Str("status", string(frame.Status)).Msg("frame published")
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
	log.Info().Msg("MQTT publisher disconnected")
}
