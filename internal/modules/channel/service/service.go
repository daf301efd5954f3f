package service

import (
	"context"
	"log/slog"

	channelRepo "github.com/reshetovitsme/global-chat-relay/internal/modules/channel/repository"
)

// Service is the channel registry. It is the only component that mutates the
// set of registered channels; every read goes to storage so callers always
// observe the last committed state.
type Service struct {
	repo   channelRepo.Repository
	logger *slog.Logger
}

// New creates a new channel registry service
func New(repo channelRepo.Repository) *Service {
	return &Service{
		repo:   repo,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Register adds a channel. Registering an existing channel is a no-op.
func (s *Service) Register(ctx context.Context, channelID int64) error {
	if err := s.repo.Register(ctx, channelID); err != nil {
		s.logger.Error("Failed to register channel", "channel_id", channelID, "error", err)
		return err
	}
	s.logger.Info("Channel registered", "channel_id", channelID)
	return nil
}

// Unregister removes a channel. Removing an unknown channel is a no-op.
func (s *Service) Unregister(ctx context.Context, channelID int64) error {
	if err := s.repo.Unregister(ctx, channelID); err != nil {
		s.logger.Error("Failed to unregister channel", "channel_id", channelID, "error", err)
		return err
	}
	s.logger.Info("Channel unregistered", "channel_id", channelID)
	return nil
}

// ListAll returns a snapshot of the registered channel ids
func (s *Service) ListAll(ctx context.Context) ([]int64, error) {
	return s.repo.ListAll(ctx)
}

// Close closes the underlying store
func (s *Service) Close() error {
	return s.repo.Close()
}
