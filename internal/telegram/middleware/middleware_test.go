package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/futig/medi-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.messages = append(s.messages, msg)
	}
	return tgbotapi.Message{}, nil
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{ID: chatID},
			Text: text,
		},
	}
}

func TestRateLimiter_BurstThenDrop(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(6, 2, sender)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	calls := 0
	next := func(context.Context, tgbotapi.Update) { calls++ }

	for i := 0; i < 4; i++ {
		rl.Handle(context.Background(), textUpdate(42, "hi"), next)
	}

	assert.Equal(t, 2, calls)
	require.Len(t, sender.messages, 1, "one warning per interval")
	assert.Equal(t, render.MsgRateLimited, sender.messages[0].Text)

	// 6 per minute refills one token every 10s.
	now = now.Add(10 * time.Second)
	rl.Handle(context.Background(), textUpdate(42, "hi"), next)
	assert.Equal(t, 3, calls)
}

func TestRateLimiter_ChatsAreIndependent(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, 1, &recordingSender{})

	calls := 0
	next := func(context.Context, tgbotapi.Update) { calls++ }

	rl.Handle(context.Background(), textUpdate(1, "a"), next)
	rl.Handle(context.Background(), textUpdate(1, "a"), next)
	rl.Handle(context.Background(), textUpdate(2, "b"), next)

	assert.Equal(t, 2, calls)
}

func TestRateLimiter_UpdatesWithoutChatPass(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, 1, &recordingSender{})

	calls := 0
	for i := 0; i < 3; i++ {
		rl.Handle(context.Background(), tgbotapi.Update{UpdateID: i}, func(context.Context, tgbotapi.Update) { calls++ })
	}

	assert.Equal(t, 3, calls)
}

func TestRecovery_RepliesAfterPanic(t *testing.T) {
	sender := &recordingSender{}
	m := NewRecoveryMiddleware(sender)

	assert.NotPanics(t, func() {
		m.Handle(context.Background(), textUpdate(7, "boom"), func(context.Context, tgbotapi.Update) {
			panic("boom")
		})
	})

	require.Len(t, sender.messages, 1)
	assert.Equal(t, int64(7), sender.messages[0].ChatID)
	assert.Equal(t, render.ErrGeneric, sender.messages[0].Text)
}

func TestLogging_PassesThrough(t *testing.T) {
	m := NewLoggingMiddleware(zap.NewNop())

	called := false
	m.Handle(context.Background(), textUpdate(3, "/help"), func(ctx context.Context, u tgbotapi.Update) {
		called = true
		assert.Equal(t, "/help", u.Message.Text)
	})

	assert.True(t, called)
}
