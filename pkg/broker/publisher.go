package broker

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher is the publishing surface the services depend on.
type IPublisher interface {
	PublishTo(topic string, qos byte, retained bool, payload []byte) error
	Close()
}

// Publisher publishes on a shared MQTT client.
type Publisher struct {
	client mqtt.Client
}

func NewPublisher(client mqtt.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishTo sends payload on topic at the requested QoS.
func (p *Publisher) PublishTo(topic string, qos byte, retained bool, payload []byte) error {
	token := p.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects the underlying client.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Println("broker: publisher disconnected")
	}
}
