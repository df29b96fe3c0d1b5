package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// typingInterval is below the 5 second lifetime of a chat action.
const typingInterval = 4 * time.Second

// startTyping shows "typing..." in the chat until the returned stop is called
// or ctx is done.
func (b *Bot) startTyping(ctx context.Context, chatID int64) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	send := func() {
		if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			ctxzap.Warn(ctx, "failed to send typing action", zap.Error(err))
		}
	}
	send()

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				send()
			case <-ctx.Done():
				return
			}
		}
	}()

	return cancel
}
