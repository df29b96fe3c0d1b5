package telegram

import (
	"context"
	"fmt"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/telegram/bot"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot connects to Telegram and returns a bot driving the advice usecase.
func NewBot(cfg *config.TelegramConfig, usecase bot.AdviceUsecase, logger *zap.Logger) (Bot, error) {
	b, err := bot.New(cfg, usecase, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized successfully")

	return b, nil
}
