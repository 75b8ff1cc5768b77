package broker

import (
	"context"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one inbound message for a topic.
type Handler func(topic string, message mqtt.Message) error

// IConsumer is the subscription surface the services depend on; the concrete
// type is swapped for a fake in tests.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(h Handler)
}

// Consumer subscribes to a single topic filter at a fixed QoS and dispatches
// messages to its handler until the context is cancelled.
type Consumer struct {
	client  mqtt.Client
	topic   string
	qos     byte
	handler Handler
}

func NewConsumer(client mqtt.Client, topic string, qos byte, h Handler) *Consumer {
	return &Consumer{client: client, topic: topic, qos: qos, handler: h}
}

func (c *Consumer) SetHandler(h Handler) { c.handler = h }

// ConsumeMessage blocks until ctx is done, then unsubscribes.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	token := c.client.Subscribe(c.topic, c.qos, func(_ mqtt.Client, m mqtt.Message) {
		if c.handler == nil {
			log.Printf("broker: no handler for topic %s", c.topic)
			return
		}
		if err := c.handler(m.Topic(), m); err != nil {
			log.Printf("broker: handler error on %s: %v", m.Topic(), err)
		}
	})
	if token.Wait() && token.Error() != nil {
		log.Printf("broker: subscribe %s failed: %v", c.topic, token.Error())
		return
	}
	log.Printf("broker: subscribed to %s (qos=%d)", c.topic, c.qos)

	<-ctx.Done()

	unsub := c.client.Unsubscribe(c.topic)
	unsub.Wait()
}
