package repository

import (
	"context"
	"fmt"

	"github.com/reshetovitsme/global-chat-relay/internal/shared/errors"
)

// Repository defines the durable set of registered channels.
// Register and Unregister are idempotent and commit to stable storage
// before returning.
type Repository interface {
	Register(ctx context.Context, channelID int64) error
	Unregister(ctx context.Context, channelID int64) error
	ListAll(ctx context.Context) ([]int64, error)
	Close() error
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", errors.ErrStorage, err)
}
