// Package gatewaytest provides an in-memory gateway for tests.
package gatewaytest

import (
	"context"
	"errors"
	"sync"

	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/gateway"
)

// ErrSendFailed is returned for channels configured with FailSend.
var ErrSendFailed = errors.New("gatewaytest: send failed")

// Sent is a recorded Send call.
type Sent struct {
	Ref     gateway.MessageRef
	Payload *embed.Embed
}

// Edited is a recorded Edit call.
type Edited struct {
	Ref     gateway.MessageRef
	Payload *embed.Embed
}

// Reaction is a recorded AddReaction call.
type Reaction struct {
	Ref   gateway.MessageRef
	Emoji string
}

// Fake implements gateway.Gateway in memory. It is safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	channels   map[int64]gateway.ChannelInfo
	denied     map[int64]bool
	failing    map[int64]bool
	deleted    map[gateway.MessageRef]bool
	nextID     int64
	sendHook   func(channelID int64)
	sends      []Sent
	edits      []Edited
	reactions  []Reaction
	attempts   []int64
	activities []string
}

// New returns an empty fake gateway.
func New() *Fake {
	return &Fake{
		channels: make(map[int64]gateway.ChannelInfo),
		denied:   make(map[int64]bool),
		failing:  make(map[int64]bool),
		deleted:  make(map[gateway.MessageRef]bool),
		nextID:   1000,
	}
}

// AddChannel makes a channel resolvable.
func (f *Fake) AddChannel(channelID, guildID int64, guildName string, members int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[channelID] = gateway.ChannelInfo{
		ID:          channelID,
		GuildID:     guildID,
		GuildName:   guildName,
		MemberCount: members,
	}
	return f
}

// RemoveChannel makes a channel unresolvable.
func (f *Fake) RemoveChannel(channelID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.channels, channelID)
}

// Deny revokes send permission in a channel.
func (f *Fake) Deny(channelID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.denied[channelID] = true
}

// FailSend makes every send into the channel fail.
func (f *Fake) FailSend(channelID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[channelID] = true
}

// DeleteMessage makes later edits of ref return gateway.ErrNotFound.
func (f *Fake) DeleteMessage(ref gateway.MessageRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[ref] = true
}

// OnSend registers a hook invoked before each send attempt.
func (f *Fake) OnSend(hook func(channelID int64)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendHook = hook
}

func (f *Fake) Send(ctx context.Context, channelID int64, payload *embed.Embed) (gateway.MessageRef, error) {
	f.mu.Lock()
	hook := f.sendHook
	f.attempts = append(f.attempts, channelID)
	f.mu.Unlock()

	if hook != nil {
		hook(channelID)
	}
	if err := ctx.Err(); err != nil {
		return gateway.MessageRef{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[channelID] {
		return gateway.MessageRef{}, ErrSendFailed
	}
	if _, ok := f.channels[channelID]; !ok {
		return gateway.MessageRef{}, gateway.ErrNotFound
	}
	f.nextID++
	ref := gateway.MessageRef{ChannelID: channelID, MessageID: f.nextID}
	f.sends = append(f.sends, Sent{Ref: ref, Payload: payload})
	return ref, nil
}

func (f *Fake) Edit(ctx context.Context, ref gateway.MessageRef, payload *embed.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleted[ref] {
		return gateway.ErrNotFound
	}
	f.edits = append(f.edits, Edited{Ref: ref, Payload: payload})
	return nil
}

func (f *Fake) Channel(ctx context.Context, channelID int64) (gateway.ChannelInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.channels[channelID]
	if !ok {
		return gateway.ChannelInfo{}, gateway.ErrNotFound
	}
	return info, nil
}

func (f *Fake) CanSend(ctx context.Context, channelID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.channels[channelID]
	return ok && !f.denied[channelID]
}

func (f *Fake) AddReaction(ctx context.Context, ref gateway.MessageRef, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, Reaction{Ref: ref, Emoji: emoji})
	return nil
}

func (f *Fake) SetActivity(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append(f.activities, text)
	return nil
}

// Sends returns successful sends in completion order.
func (f *Fake) Sends() []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Sent(nil), f.sends...)
}

// Attempts returns the channel ids of every Send call, successful or not.
func (f *Fake) Attempts() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.attempts...)
}

// Edits returns recorded edits.
func (f *Fake) Edits() []Edited {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Edited(nil), f.edits...)
}

// Reactions returns recorded reactions.
func (f *Fake) Reactions() []Reaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Reaction(nil), f.reactions...)
}

// Activities returns recorded presence updates.
func (f *Fake) Activities() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.activities...)
}

var _ gateway.Gateway = (*Fake)(nil)
