package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/reshetovitsme/global-chat-relay/internal/modules/membership/domain"
	relayService "github.com/reshetovitsme/global-chat-relay/internal/modules/relay/service"
	sharedErrors "github.com/reshetovitsme/global-chat-relay/internal/shared/errors"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/gateway/gatewaytest"
	"github.com/stretchr/testify/require"
)

type memRegistry struct {
	mu        sync.Mutex
	ids       []int64
	failWrite error
	afterList func()
}

func (r *memRegistry) Register(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		return r.failWrite
	}
	if !slices.Contains(r.ids, id) {
		r.ids = append(r.ids, id)
	}
	return nil
}

func (r *memRegistry) Unregister(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		return r.failWrite
	}
	r.ids = slices.DeleteFunc(r.ids, func(v int64) bool { return v == id })
	return nil
}

func (r *memRegistry) ListAll(ctx context.Context) ([]int64, error) {
	r.mu.Lock()
	ids := slices.Clone(r.ids)
	hook := r.afterList
	r.afterList = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return ids, nil
}

type recorder struct {
	replies []domain.Reply
}

func (r *recorder) respond(ctx context.Context, reply domain.Reply) error {
	r.replies = append(r.replies, reply)
	return nil
}

func newService(reg *memRegistry, gw *gatewaytest.Fake) *Service {
	broadcaster := relayService.New(reg, gw, relayService.Options{})
	return New(reg, broadcaster, gw, 0)
}

func fixture() *gatewaytest.Fake {
	return gatewaytest.New().
		AddChannel(10, 1, "Alpha", 5).
		AddChannel(11, 1, "Alpha", 5).
		AddChannel(20, 2, "Beta", 3)
}

func TestStartRegistersAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	gw := fixture()
	reg := &memRegistry{ids: []int64{20}}
	svc := newService(reg, gw)
	rec := &recorder{}

	err := svc.Start(ctx, domain.Invocation{ChannelID: 10, GuildID: 1, GuildName: "Alpha"}, rec.respond)
	require.NoError(t, err)

	ids, _ := reg.ListAll(ctx)
	require.ElementsMatch(t, []int64{10, 20}, ids)
	require.Len(t, rec.replies, 1)
	require.Equal(t, "Global chat started!", rec.replies[0].Content)

	require.ElementsMatch(t, []int64{10, 20}, gw.Attempts())
	for _, sent := range gw.Sends() {
		require.Equal(t, "Global chat started", sent.Payload.Title)
		require.Contains(t, sent.Payload.Description, "Alpha")
	}
	require.Equal(t, []string{"Connected to 2 channels"}, gw.Activities())
}

func TestStartTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	reg := &memRegistry{}
	svc := newService(reg, fixture())
	rec := &recorder{}
	inv := domain.Invocation{ChannelID: 10, GuildID: 1, GuildName: "Alpha"}

	require.NoError(t, svc.Start(ctx, inv, rec.respond))
	require.NoError(t, svc.Start(ctx, inv, rec.respond))

	ids, _ := reg.ListAll(ctx)
	require.Equal(t, []int64{10}, ids)
}

func TestStopUnregistersAndNotifiesRemaining(t *testing.T) {
	ctx := context.Background()
	gw := fixture()
	reg := &memRegistry{ids: []int64{10, 11, 20}}
	svc := newService(reg, gw)
	rec := &recorder{}

	before, err := svc.List(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Stop(ctx, domain.Invocation{ChannelID: 10, GuildID: 1, GuildName: "Alpha"}, rec.respond))

	require.ElementsMatch(t, []int64{11, 20}, gw.Attempts())
	for _, sent := range gw.Sends() {
		require.Equal(t, "Global chat stopped", sent.Payload.Title)
		require.Equal(t, "2", sent.Payload.Fields[0].Value)
	}
	require.Equal(t, "Global chat stopped.", rec.replies[0].Content)

	after, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, before.Count-1, after.Count)
}

func TestStopUnknownChannelIsNoop(t *testing.T) {
	ctx := context.Background()
	reg := &memRegistry{ids: []int64{20}}
	svc := newService(reg, fixture())
	rec := &recorder{}

	require.NoError(t, svc.Stop(ctx, domain.Invocation{ChannelID: 10, GuildID: 1}, rec.respond))
	ids, _ := reg.ListAll(ctx)
	require.Equal(t, []int64{20}, ids)
}

func TestStartStorageFailureIsReported(t *testing.T) {
	ctx := context.Background()
	gw := fixture()
	reg := &memRegistry{failWrite: sharedErrors.ErrStorage}
	svc := newService(reg, gw)
	rec := &recorder{}

	err := svc.Start(ctx, domain.Invocation{ChannelID: 10, GuildID: 1}, rec.respond)
	require.Error(t, err)
	require.True(t, errors.Is(err, sharedErrors.ErrStorage))
	require.Empty(t, rec.replies)
	require.Empty(t, gw.Attempts())
}

func TestStartOutsideGuild(t *testing.T) {
	svc := newService(&memRegistry{}, fixture())
	err := svc.Start(context.Background(), domain.Invocation{ChannelID: 10}, (&recorder{}).respond)
	require.ErrorIs(t, err, sharedErrors.ErrNotInGuild)
}

func TestBroadcastSkipsUnreachablePeers(t *testing.T) {
	ctx := context.Background()
	gw := fixture()
	gw.Deny(20)
	gw.FailSend(11)
	reg := &memRegistry{ids: []int64{11, 20}}
	svc := newService(reg, gw)
	rec := &recorder{}

	require.NoError(t, svc.Start(ctx, domain.Invocation{ChannelID: 10, GuildID: 1, GuildName: "Alpha"}, rec.respond))
	ids, _ := reg.ListAll(ctx)
	require.ElementsMatch(t, []int64{10, 11, 20}, ids)
	require.Len(t, gw.Sends(), 1)
}

func TestListEmpty(t *testing.T) {
	svc := newService(&memRegistry{}, fixture())

	result, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Zero(t, result.Count)
	require.Empty(t, result.Servers)

	e := ListEmbed(result)
	require.Equal(t, "Current connections: 0", e.Description)
	require.Equal(t, "No servers are registered.", e.Fields[0].Value)
}

func TestListTwoGuilds(t *testing.T) {
	svc := newService(&memRegistry{ids: []int64{10, 20}}, fixture())

	result, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	require.ElementsMatch(t, []domain.ServerEntry{
		{ChannelID: 10, GuildName: "Alpha", MemberCount: 5},
		{ChannelID: 20, GuildName: "Beta", MemberCount: 3},
	}, result.Servers)

	e := ListEmbed(result)
	require.Equal(t, "Current connections: 2", e.Description)
	require.Contains(t, e.Fields[0].Value, "Alpha - members: 5")
	require.Contains(t, e.Fields[0].Value, "Beta - members: 3")
}

func TestAnnounceOnline(t *testing.T) {
	gw := fixture()
	svc := newService(&memRegistry{ids: []int64{10, 20}}, gw)

	require.NoError(t, svc.AnnounceOnline(context.Background()))
	require.ElementsMatch(t, []int64{10, 20}, gw.Attempts())
	require.Equal(t, []string{"Connected to 2 channels"}, gw.Activities())
}

func TestStopAnnouncesCountOfItsAudience(t *testing.T) {
	ctx := context.Background()
	gw := fixture()
	reg := &memRegistry{ids: []int64{10, 11, 20}}
	svc := newService(reg, gw)
	rec := &recorder{}

	// a start landing right after the post-stop read
	reg.afterList = func() { _ = reg.Register(ctx, 10) }

	require.NoError(t, svc.Stop(ctx, domain.Invocation{ChannelID: 10, GuildID: 1, GuildName: "Alpha"}, rec.respond))

	sends := gw.Sends()
	require.Len(t, sends, 2)
	require.ElementsMatch(t, []int64{11, 20}, gw.Attempts())
	for _, sent := range sends {
		require.Equal(t, "2", sent.Payload.Fields[0].Value)
	}
	require.Equal(t, []string{"Connected to 2 channels"}, gw.Activities())
}
