package service

import (
	"context"
	"path/filepath"
	"testing"

	channelRepo "github.com/reshetovitsme/global-chat-relay/internal/modules/channel/repository"
	"github.com/stretchr/testify/require"
)

func TestServiceRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, err := channelRepo.NewSQLiteStorage(filepath.Join(t.TempDir(), "channels.db"))
	require.NoError(t, err)
	svc := New(repo)
	defer svc.Close()

	ids, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, svc.Register(ctx, 11))
	require.NoError(t, svc.Register(ctx, 11))
	require.NoError(t, svc.Register(ctx, 12))

	ids, err = svc.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{11, 12}, ids)

	require.NoError(t, svc.Unregister(ctx, 11))
	require.NoError(t, svc.Unregister(ctx, 11))

	ids, err = svc.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{12}, ids)
}
