package broker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alphadose/haxmap"
	"github.com/nats-io/nats.go"

	"github.com/promptpipe/promptpipe/events"
	"github.com/promptpipe/promptpipe/pkg/slogx"
	"github.com/promptpipe/promptpipe/pkg/uuidx"
)

type natsBroker struct {
	client *nats.Conn
	topics *haxmap.Map[string, *natsTopic]
}

// NATS returns a broker that carries run events over the given NATS
// connection, one subject per topic.
func NATS(client *nats.Conn) Broker {
	return &natsBroker{
		client: client,
		topics: haxmap.New[string, *natsTopic](),
	}
}

func (b *natsBroker) Topic(_ context.Context, id string) Topic {
	top, _ := b.topics.GetOrCompute(id, func() *natsTopic {
		return &natsTopic{subject: id, client: b.client}
	})
	return top
}

type natsTopic struct {
	client  *nats.Conn
	subject string
}

func (t *natsTopic) Publish(_ context.Context, event events.Event) error {
	eb, err := events.ToJSON(event)
	if err != nil {
		return err
	}
	return t.client.Publish(t.subject, eb)
}

func (t *natsTopic) Subscribe(ctx context.Context, listener events.Listener) (Subscription, error) {
	if listener == nil {
		return nil, fmt.Errorf("listener is required")
	}

	nsub, err := t.client.Subscribe(t.subject, func(msg *nats.Msg) {
		event, err := events.FromJSON(msg.Data)
		if err != nil {
			slog.Error("failed to decode run event", slogx.Error(err))
			return
		}
		listener.OnEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return &natsSubscription{id: uuidx.NewString(), sub: nsub}, nil
}

type natsSubscription struct {
	id  string
	sub *nats.Subscription
}

func (s *natsSubscription) ID() string {
	return s.id
}

func (s *natsSubscription) Unsubscribe() {
	if err := s.sub.Unsubscribe(); err != nil {
		slog.Error("failed to unsubscribe from run events", slogx.Error(err))
	}
}
