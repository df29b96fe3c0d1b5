package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/telegram/keyboard"
	"github.com/futig/medi-assistant/internal/telegram/middleware"
	"github.com/futig/medi-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api         botAPI
	cfg         *config.TelegramConfig
	usecase     AdviceUsecase
	keyboard    *keyboard.Builder
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(cfg *config.TelegramConfig, usecase AdviceUsecase, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return newBot(api, cfg, usecase, logger), nil
}

func newBot(api botAPI, cfg *config.TelegramConfig, usecase AdviceUsecase, logger *zap.Logger) *Bot {
	return &Bot{
		api:         api,
		cfg:         cfg,
		usecase:     usecase,
		keyboard:    keyboard.NewBuilder(),
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, api),
		stopChan:    make(chan struct{}),
	}
}

// Start starts receiving updates. It returns immediately.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	updates := b.api.GetUpdatesChan(u)

	go b.processUpdates(ctx, updates)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops receiving updates and waits for in-flight updates to finish.
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			b.logger.Info("stop signal received, stopping update processing")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(u)
			}(update)
		}
	}
}

// handleUpdate runs one update through rate limiting, logging and recovery.
// Updates are not bound to the receive loop's context so that a shutdown lets
// running advice actions finish.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := ctxzap.ToContext(context.Background(), b.logger)

	b.rateLimitMW.Handle(ctx, update, func(ctx context.Context, u tgbotapi.Update) {
		b.loggingMW.Handle(ctx, u, func(ctx context.Context, u tgbotapi.Update) {
			b.recoveryMW.Handle(ctx, u, b.dispatch)
		})
	})
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Chat != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Text == "" {
		b.send(ctx, message.Chat.ID, render.ErrUnsupportedMessage, nil)
		return
	}

	b.handleSymptoms(ctx, message.Chat.ID, message.Text)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, replyMarkup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}

	if _, err := b.api.Send(msg); err != nil {
		ctxzap.Error(ctx, "failed to send message", zap.Error(err))
	}
}

func (b *Bot) sendError(ctx context.Context, chatID int64, err error) {
	if !isUserError(err) {
		ctxzap.Error(ctx, "telegram action failed", zap.Error(err))
	}
	b.send(ctx, chatID, render.ClassifyError(err), nil)
}

func (b *Bot) answerCallback(ctx context.Context, callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		ctxzap.Error(ctx, "failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

func (b *Bot) editKeyboard(ctx context.Context, chatID int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup)
	if _, err := b.api.Request(edit); err != nil {
		ctxzap.Warn(ctx, "failed to update keyboard", zap.Error(err))
	}
}
