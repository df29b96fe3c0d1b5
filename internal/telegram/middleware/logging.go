package middleware

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// LoggingMiddleware attaches an update-scoped logger to the context and logs
// every update with its duration.
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

// Handle logs the update
func (m *LoggingMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc) {
	start := time.Now()

	logger := m.logger.With(
		zap.Int("update_id", update.UpdateID),
		zap.Int64("chat_id", ChatID(update)),
		zap.Int64("user_id", userID(update)),
	)
	ctx = ctxzap.ToContext(ctx, logger)

	logger.Info("telegram update received", zap.String("type", updateType(update)))

	next(ctx, update)

	logger.Info("telegram update processed", zap.Duration("duration", time.Since(start)))
}

func updateType(update tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message == nil:
		return "other"
	case update.Message.IsCommand():
		return "command"
	case update.Message.Text != "":
		return "text"
	default:
		return "other"
	}
}
