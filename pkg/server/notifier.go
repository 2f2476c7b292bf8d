package server

import (
	"context"
	"log"

	"github.com/matst80/node-finder/pkg/index"
	"github.com/matst80/node-finder/pkg/messaging"
	"github.com/matst80/node-finder/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PreferenceNotifier tells other instances that a user's preferences were
// saved.
type PreferenceNotifier interface {
	PreferencesChanged(change messaging.PreferencesChange) error
}

type AmqpNotifier struct {
	Conn   *amqp.Connection
	Prefix string
}

func (n *AmqpNotifier) PreferencesChanged(change messaging.PreferencesChange) error {
	return messaging.SendChange(n.Conn, n.Prefix, messaging.PreferencesChanged, change)
}

func (ws *WebServer) notifyPreferences(user, screen string) {
	preferenceSaves.Inc()
	if ws.Notifier == nil {
		return
	}
	change := messaging.PreferencesChange{
		Key:    types.PreferenceKey(user, screen),
		Source: ws.InstanceId,
	}
	if err := ws.Notifier.PreferencesChanged(change); err != nil {
		log.Printf("Failed to publish preference change for %s: %v", change.Key, err)
	}
}

// HandlePreferencesChange reloads the live sessions of a user whose
// preferences were saved by another instance.
func (ws *WebServer) HandlePreferencesChange(change messaging.PreferencesChange) error {
	if change.Source == ws.InstanceId {
		return nil
	}
	user, screen, ok := types.ParsePreferenceKey(change.Key)
	if !ok {
		log.Printf("Ignoring preference change with key %q", change.Key)
		return nil
	}
	ws.Sessions.ForUser(user, screen, func(s *index.Session) {
		if err := s.Load(context.Background()); err != nil {
			log.Printf("Failed to reload preferences %s: %v", change.Key, err)
		}
	})
	return nil
}
