package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

type doneToken struct {
	err error
}

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Error() error                   { return t.err }
func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeClient struct {
	paho.Client
	topic    string
	qos      byte
	retained bool
	payload  []byte
	err      error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.topic = topic
	c.qos = qos
	c.retained = retained
	c.payload = payload.([]byte)
	return &doneToken{err: c.err}
}

func TestPublisherRenderPublishesRetainedJSON(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(client, "lobby-1")

	frame := model.Frame{Status: model.StatusReady, Alerts: []model.Alert{}}
	require.NoError(t, p.Render(context.Background(), frame))

	assert.Equal(t, "screens/lobby-1/frame", client.topic)
	assert.Equal(t, byte(1), client.qos)
	assert.True(t, client.retained)

	var got model.Frame
	require.NoError(t, json.Unmarshal(client.payload, &got))
	assert.Equal(t, model.StatusReady, got.Status)
}

func TestPublisherRenderReturnsPublishError(t *testing.T) {
	client := &fakeClient{err: errors.New("not connected")}
	p := NewPublisher(client, "lobby-1")

	err := p.Render(context.Background(), model.Frame{Status: model.StatusLoading})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}
