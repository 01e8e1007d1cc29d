// Package broker provides publish/subscribe fan-out of pipeline run events.
// The local broker keeps everything in process; the NATS broker carries the
// same events across process boundaries.
package broker

import (
	"context"

	"github.com/promptpipe/promptpipe/events"
)

type Broker interface {
	Topic(context.Context, string) Topic
}

type Topic interface {
	Publish(context.Context, events.Event) error
	Subscribe(context.Context, events.Listener) (Subscription, error)
}

type Subscription interface {
	ID() string
	Unsubscribe()
}

// Noop returns a topic that drops every event. Pipelines run with it when
// no observer is attached.
func Noop() Topic { return noopTopic{} }

type noopTopic struct{}

func (noopTopic) Publish(context.Context, events.Event) error { return nil }

func (noopTopic) Subscribe(context.Context, events.Listener) (Subscription, error) {
	return noopSubscription{}, nil
}

type noopSubscription struct{}

func (noopSubscription) ID() string   { return "noop" }
func (noopSubscription) Unsubscribe() {}
