package signal

import (
	"context"
	"encoding/json"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSink relays events to an MQTT topic for off-box consumers such as farm
// dashboards. Delivery is fire-and-forget at the configured QoS; a session
// must never wait on broker acknowledgment.
type MQTTSink struct {
	client pahomqtt.Client
	topic  string
	qos    byte
}

// NewMQTTSink publishes to topic at qos, or to [DefaultChannel] when topic is
// empty.
func NewMQTTSink(client pahomqtt.Client, topic string, qos byte) *MQTTSink {
	if topic == "" {
		topic = DefaultChannel
	}
	return &MQTTSink{client: client, topic: topic, qos: qos}
}

func (s *MQTTSink) Emit(_ context.Context, event Event) {
	if s.client == nil || !s.client.IsConnected() {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	s.client.Publish(s.topic, s.qos, false, data)
}
