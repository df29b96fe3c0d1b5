package bot

import (
	"context"
	"fmt"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/telegram/keyboard"
	"github.com/futig/medi-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// handleCallbackQuery handles inline button clicks. The query is answered
// first so that Telegram stops the button spinner while the action runs.
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.Message.Chat == nil {
		b.answerCallback(ctx, query.ID, "")
		return
	}

	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	data, err := keyboard.ParseCallback(query.Data)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data", zap.Error(err), zap.String("data", query.Data))
		b.answerCallback(ctx, query.ID, "❌")
		return
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
	)

	b.answerCallback(ctx, query.ID, "")

	switch data.Action {
	case keyboard.ActionSuggestion:
		b.acceptSuggestion(ctx, chatID, messageID, data.Value)
	case keyboard.ActionLanguage:
		b.handleLanguage(ctx, chatID, data.Value)
	case keyboard.ActionCondition:
		b.toggleCondition(ctx, chatID, messageID, data.Value)
	case keyboard.ActionCommand:
		switch data.Value {
		case "advice":
			b.handleAdvice(ctx, chatID, false)
		case "audio":
			b.handleAdvice(ctx, chatID, true)
		case "suggest":
			b.handleSuggest(ctx, chatID)
		}
	default:
		ctxzap.Warn(ctx, "unknown callback action", zap.String("action", data.Action))
	}
}

func (b *Bot) acceptSuggestion(ctx context.Context, chatID int64, messageID int, fingerprint string) {
	session, err := b.ensureSession(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	suggestion := ""
	for _, item := range session.Suggestions.Items {
		if keyboard.Fingerprint(item) == fingerprint {
			suggestion = item
			break
		}
	}
	if suggestion == "" {
		b.sendError(ctx, chatID, entity.ErrUnknownSuggestion)
		return
	}

	session, err = b.usecase.AcceptSuggestion(ctx, session.ID, &entity.AcceptSuggestionRequest{Suggestion: suggestion})
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.editKeyboard(ctx, chatID, messageID, b.keyboard.SuggestionsKeyboard(session.Suggestions.Items))
	b.send(ctx, chatID,
		fmt.Sprintf(render.MsgAcceptedSuggestion, render.RenderSymptoms(session.Report.Symptoms)),
		b.keyboard.AdviceKeyboard(),
	)
}

func (b *Bot) toggleCondition(ctx context.Context, chatID int64, messageID int, name string) {
	session, err := b.ensureSession(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	raw := make([]string, 0, len(session.Report.Conditions)+1)
	removed := false
	for _, c := range session.Report.Conditions {
		if string(c) == name {
			removed = true
			continue
		}
		raw = append(raw, string(c))
	}
	if !removed {
		raw = append(raw, name)
	}

	session, err = b.usecase.SetConditions(ctx, session.ID, raw)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.editKeyboard(ctx, chatID, messageID, b.keyboard.ConditionsKeyboard(session.Report.Conditions))
	b.send(ctx, chatID, fmt.Sprintf(render.MsgConditionsSet, render.RenderConditions(session.Report.Conditions)), nil)
}
