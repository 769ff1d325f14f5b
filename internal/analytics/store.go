package analytics

import (
	"context"

	"go.uber.org/zap"
)

// Store persists analytics events.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkAccessed(ctx context.Context, event *LinkAccessedEvent) error
}

// LogStore records analytics events to the structured log. It is the
// sink used until a dedicated analytics backend exists.
type LogStore struct {
	logger *zap.Logger
}

// NewLogStore creates a log-backed analytics store.
func NewLogStore(logger *zap.Logger) *LogStore {
	return &LogStore{logger: logger}
}

func (s *LogStore) SaveLinkCreated(_ context.Context, event *LinkCreatedEvent) error {
	s.logger.Info("link created",
		zap.String("hash", event.Hash),
		zap.String("target", event.Target),
		zap.String("sponsor", event.Sponsor),
		zap.String("brand", event.Brand),
		zap.String("clientIp", event.ClientIP),
		zap.String("userAgent", event.UserAgent),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (s *LogStore) SaveLinkAccessed(_ context.Context, event *LinkAccessedEvent) error {
	s.logger.Info("link accessed",
		zap.String("hash", event.Hash),
		zap.String("target", event.Target),
		zap.String("clientIp", event.ClientIP),
		zap.String("userAgent", event.UserAgent),
		zap.String("referrer", event.Referrer),
		zap.Time("accessedAt", event.AccessedAt),
	)

	return nil
}
