// Package eventbus publishes run lifecycle events over a message transport.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/autofy/autofy/pkg/events"
)

var ErrUnknownEventType = errors.New("unknown event type")

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, handler EventHandler) error
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

// typedEvent is implemented by every event the bus carries.
type typedEvent interface {
	GetType() events.EventType
}

type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) EventBus {
	return &WatermillEventBus{
		publisher:  pub,
		subscriber: sub,
	}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(_ context.Context, event any) error {
	typed, ok := event.(typedEvent)
	if !ok {
		return ErrUnknownEventType
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set("event_type", string(typed.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

// Subscribe consumes the run topic and dispatches each message, decoded
// by its event_type metadata, to the handler.
func (eb *WatermillEventBus) Subscribe(ctx context.Context, handler EventHandler) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			event := emptyEvent(events.EventType(msg.Metadata.Get("event_type")))
			if event == nil {
				msg.Nack()

				continue
			}

			if err := json.Unmarshal(msg.Payload, event); err != nil {
				msg.Nack()

				continue
			}

			if err := handler(ctx, event); err != nil {
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func emptyEvent(eventType events.EventType) any {
	switch eventType {
	case events.RunStartedEvent:
		return &events.RunStarted{}
	case events.RunFinishedEvent:
		return &events.RunFinished{}
	case events.RunFailedEvent:
		return &events.RunFailed{}
	case events.StepFailedEvent:
		return &events.StepFailed{}
	default:
		return nil
	}
}

func (eb *WatermillEventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		return err
	}

	return eb.subscriber.Close()
}
