package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alphadose/haxmap"

	"github.com/promptpipe/promptpipe/events"
	"github.com/promptpipe/promptpipe/pkg/uuidx"
)

const defaultSlowSubscriberTimeout = 100 * time.Millisecond

type localBroker struct {
	topics                *haxmap.Map[string, *localTopic]
	slowSubscriberTimeout time.Duration
}

// Local returns an in-process broker. Subscribers that fail to drain their
// buffer within the slow-subscriber timeout are dropped rather than
// blocking publishers.
func Local() Broker {
	return &localBroker{
		topics:                haxmap.New[string, *localTopic](),
		slowSubscriberTimeout: defaultSlowSubscriberTimeout,
	}
}

func (b *localBroker) Topic(_ context.Context, id string) Topic {
	topic, _ := b.topics.GetOrCompute(id, func() *localTopic {
		return &localTopic{
			id:                    id,
			subscriptions:         haxmap.New[string, *localSubscription](),
			slowSubscriberTimeout: b.slowSubscriberTimeout,
		}
	})
	return topic
}

type localTopic struct {
	id                    string
	subscriptions         *haxmap.Map[string, *localSubscription]
	slowSubscriberTimeout time.Duration
}

func (t *localTopic) Publish(ctx context.Context, event events.Event) error {
	t.subscriptions.ForEach(func(id string, sub *localSubscription) bool {
		if sub == nil {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
			return true
		default:
		}

		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
		case sub.channel <- event:
		case <-time.After(t.slowSubscriberTimeout):
			sub.Unsubscribe()
		}
		return true
	})
	return nil
}

func (t *localTopic) Subscribe(ctx context.Context, listener events.Listener) (Subscription, error) {
	if listener == nil {
		return nil, fmt.Errorf("listener is required")
	}

	id := uuidx.NewString()
	sub := &localSubscription{
		id:       id,
		ctx:      ctx,
		channel:  make(chan events.Event, 50),
		onClose:  func() { t.subscriptions.Del(id) },
		listener: listener,
	}
	t.subscriptions.Set(id, sub)
	go sub.forward()
	return sub, nil
}

type localSubscription struct {
	id        string
	ctx       context.Context
	channel   chan events.Event
	closeOnce sync.Once
	onClose   func()
	listener  events.Listener
}

func (s *localSubscription) ID() string {
	return s.id
}

func (s *localSubscription) Unsubscribe() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
		close(s.channel)
	})
}

func (s *localSubscription) forward() {
	for {
		select {
		case event, ok := <-s.channel:
			if !ok {
				return
			}
			s.listener.OnEvent(s.ctx, event)
		case <-s.ctx.Done():
			return
		}
	}
}
