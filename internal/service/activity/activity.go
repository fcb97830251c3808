package activity

import (
	"context"
	"fmt"

	"screenerbot-gateway/internal/domain/event"

	"go.uber.org/zap"
)

// Service records gateway events to the optional store and every live sink.
// Sink failures are logged and never surface to the request.
type Service struct {
	store  event.Store
	sinks  []event.Recorder
	logger *zap.Logger
}

// NewService accepts a nil store when no storage backend is configured.
func NewService(store event.Store, logger *zap.Logger, sinks ...event.Recorder) *Service {
	return &Service{
		store:  store,
		sinks:  sinks,
		logger: logger,
	}
}

func (s *Service) Record(ctx context.Context, e *event.Event) error {
	if e == nil {
		return nil
	}
	// Persist even when the request was cancelled after the outcome was known.
	ctx = context.WithoutCancel(ctx)

	if s.store != nil {
		if err := s.store.Record(ctx, e); err != nil {
			s.logger.Error("failed to store activity",
				zap.String("id", e.ID),
				zap.String("type", string(e.Type)),
				zap.Error(err),
			)
		}
	}
	for _, sink := range s.sinks {
		if err := sink.Record(ctx, e); err != nil {
			s.logger.Warn("failed to forward activity",
				zap.String("id", e.ID),
				zap.String("type", string(e.Type)),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Recent lists stored events, newest first. Without a store it is always empty.
func (s *Service) Recent(ctx context.Context, limit int) ([]*event.Event, error) {
	if s.store == nil {
		return []*event.Event{}, nil
	}
	events, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}
	return events, nil
}

func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
