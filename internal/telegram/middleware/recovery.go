package middleware

import (
	"context"
	"runtime/debug"

	"github.com/futig/medi-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// RecoveryMiddleware recovers from panics
type RecoveryMiddleware struct {
	sender Sender
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(sender Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		sender: sender,
	}
}

// Handle recovers from panics
func (m *RecoveryMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			logger := ctxzap.Extract(ctx)
			logger.Error("panic recovered in telegram handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)

			if chatID := ChatID(update); chatID != 0 {
				if _, err := m.sender.Send(tgbotapi.NewMessage(chatID, render.ErrGeneric)); err != nil {
					logger.Error("failed to send error message", zap.Error(err))
				}
			}
		}
	}()

	next(ctx, update)
}
