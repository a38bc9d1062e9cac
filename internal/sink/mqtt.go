// internal/sink/mqtt.go
package sink

import (
	"context"
	"encoding/json"
	"math"

	"github.com/tamzrod/modbus-gauge/internal/poller"
)

// Publisher is the subset of mqtt.Client the sink needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, qos byte, retain bool, payload []byte) error
}

// MQTT publishes successful values as {"value": v} on
// <prefix>/<gauge_id>/<characteristic_id>. Failed cycles publish nothing.
type MQTT struct {
	pub    Publisher
	prefix string
	qos    byte
	retain bool
}

func NewMQTT(pub Publisher, prefix string, qos byte, retain bool) *MQTT {
	return &MQTT{pub: pub, prefix: prefix, qos: qos, retain: retain}
}

func (m *MQTT) Name() string { return "mqtt" }

type valuePayload struct {
	Value float64 `json:"value"`
}

func (m *MQTT) Deliver(ctx context.Context, res poller.PollResult) error {
	if res.Err != nil {
		return nil
	}
	// JSON has no NaN or Inf
	if math.IsNaN(res.Scaled) || math.IsInf(res.Scaled, 0) {
		return nil
	}

	payload, err := json.Marshal(valuePayload{Value: res.Scaled})
	if err != nil {
		return err
	}
	return m.pub.Publish(ctx, m.Topic(res.Target), m.qos, m.retain, payload)
}

// Topic returns the topic a target publishes on.
func (m *MQTT) Topic(t *poller.Target) string {
	topic := t.Gauge + "/" + t.Characteristic
	if m.prefix != "" {
		topic = m.prefix + "/" + topic
	}
	return topic
}
