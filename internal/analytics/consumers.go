package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"github.com/dvalfre/urlshortener/internal/messaging"
)

// NewLinkCreatedConsumer consumes link created events into the store.
func NewLinkCreatedConsumer(
	subscriber message.Subscriber,
	store Store,
	logger *zap.Logger,
) *messaging.Consumer[LinkCreatedEvent] {
	return messaging.NewConsumer(subscriber, TopicLinkCreated, store.SaveLinkCreated, logger)
}

// NewLinkAccessedConsumer consumes link accessed events into the store.
func NewLinkAccessedConsumer(
	subscriber message.Subscriber,
	store Store,
	logger *zap.Logger,
) *messaging.Consumer[LinkAccessedEvent] {
	return messaging.NewConsumer(subscriber, TopicLinkAccessed, store.SaveLinkAccessed, logger)
}
