package messaging

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	if err = ch.QueueBind(q.Name, name, name, false, nil); err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic consumes the topic on a background goroutine. Deliveries the
// handler fails on are rejected without requeue, the listener keeps going.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return fmt.Errorf("consume %s: %w", getName(prefix, topic), err)
	}

	go func() {
		defer ch.Close()
		for d := range msgs {
			if err := handler(d); err != nil {
				log.Printf("Error processing %s message: %v", topic, err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
		log.Printf("Stopped listening to %s", topic)
	}()
	return nil
}

// ListenToJson decodes every delivery body into V before handing it on.
func ListenToJson[V any](ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(V) error) error {
	return ListenToTopic(ch, prefix, topic, func(d amqp.Delivery) error {
		var data V
		if err := json.Unmarshal(d.Body, &data); err != nil {
			return fmt.Errorf("decode %s: %w", topic, err)
		}
		return handler(data)
	})
}
