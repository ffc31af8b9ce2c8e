package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/winmanuel/eduhub/internal/config"
	"github.com/winmanuel/eduhub/internal/logger"
)

// WatermillPublisher publishes events as JSON messages on
// "<prefix>.<entity>" topics.
type WatermillPublisher struct {
	publisher   message.Publisher
	topicPrefix string
	log         zerolog.Logger
}

// NewPublisher returns a kafka backed publisher when brokers are
// configured and an in-process channel otherwise.
func NewPublisher(cfg config.EventsConfig, log zerolog.Logger) (*WatermillPublisher, error) {
	log = log.With().Str("component", "events").Logger()
	wmLogger := logger.NewWatermillLogger(log)

	if len(cfg.KafkaBrokers) > 0 {
		pub, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:   cfg.KafkaBrokers,
			Marshaler: kafka.DefaultMarshaler{},
		}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("publishing events to kafka")
		return &WatermillPublisher{publisher: pub, topicPrefix: cfg.TopicPrefix, log: log}, nil
	}

	ch := gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
	log.Debug().Msg("publishing events in-process")
	return &WatermillPublisher{publisher: ch, topicPrefix: cfg.TopicPrefix, log: log}, nil
}

// Topic returns the topic events of the entity are published on.
func (p *WatermillPublisher) Topic(entity string) string {
	return p.topicPrefix + "." + entity
}

func (p *WatermillPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("entity_id", event.EntityID)
	msg.SetContext(ctx)

	topic := p.Topic(event.Entity)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event.Type, topic, err)
	}

	p.log.Debug().Str("event_type", string(event.Type)).Str("entity_id", event.EntityID).Str("topic", topic).Msg("event published")
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
