package main

import (
	"log"

	"github.com/matst80/node-finder/pkg/messaging"
	"github.com/matst80/node-finder/pkg/server"
	"github.com/matst80/node-finder/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

func (a *app) ConnectAmqp(amqpUrl string) {
	conn, err := amqp.DialConfig(amqpUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	a.conn = conn

	for _, topic := range []messaging.ChangeTopic{messaging.NodesUpserted, messaging.NodesDeleted, messaging.PreferencesChanged} {
		if err := a.defineTopic(topic); err != nil {
			log.Fatalf("Failed to declare %s: %v", topic, err)
		}
	}

	a.listen(messaging.NodesUpserted, func(ch *amqp.Channel) error {
		return messaging.ListenToJson(ch, prefix, messaging.NodesUpserted, func(nodes []types.Node) error {
			log.Printf("Got upserts %d", len(nodes))
			a.upserts.Add(nodes...)
			return nil
		})
	})
	a.listen(messaging.NodesDeleted, func(ch *amqp.Channel) error {
		return messaging.ListenToJson(ch, prefix, messaging.NodesDeleted, func(ids []types.NodeId) error {
			log.Printf("Got deletes %d", len(ids))
			a.nodeIndex.Delete(ids...)
			a.dirty.Store(true)
			return nil
		})
	})
	a.listen(messaging.PreferencesChanged, func(ch *amqp.Channel) error {
		return messaging.ListenToJson(ch, prefix, messaging.PreferencesChanged, a.server.HandlePreferencesChange)
	})

	a.server.Notifier = &server.AmqpNotifier{Conn: conn, Prefix: prefix}
	log.Printf("Listening for node changes on %s", prefix)
}

func (a *app) defineTopic(topic messaging.ChangeTopic) error {
	ch, err := a.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, prefix, topic)
}

func (a *app) listen(topic messaging.ChangeTopic, fn func(ch *amqp.Channel) error) {
	ch, err := a.conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open a channel: %v", err)
	}
	if err := fn(ch); err != nil {
		log.Fatalf("Failed to listen to %s: %v", topic, err)
	}
}
