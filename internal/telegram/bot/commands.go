package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/pkg/logger"
	"github.com/futig/medi-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	command := message.Command()
	args := strings.TrimSpace(message.CommandArguments())

	ctxzap.Info(ctx, "command received", zap.String("command", command))

	switch command {
	case "start":
		b.handleStart(ctx, chatID)
	case "help":
		b.send(ctx, chatID, render.MsgHelp, nil)
	case "lang":
		b.handleLanguage(ctx, chatID, args)
	case "conditions":
		b.handleConditions(ctx, chatID, args)
	case "clear":
		b.handleClear(ctx, chatID)
	case "advice":
		b.handleAdvice(ctx, chatID, false)
	case "audio":
		b.handleAdvice(ctx, chatID, true)
	case "suggest":
		b.handleSuggest(ctx, chatID)
	default:
		b.send(ctx, chatID, render.ErrUnknownCommand, nil)
	}
}

// ensureSession returns the chat's session, creating it after expiry.
func (b *Bot) ensureSession(ctx context.Context, chatID int64) (*entity.Session, error) {
	return b.usecase.EnsureSession(ctx, SessionID(chatID))
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	if _, err := b.ensureSession(ctx, chatID); err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.send(ctx, chatID, render.MsgWelcome, nil)
	b.send(ctx, chatID, render.MsgHelp, nil)
}

// handleSymptoms replaces the symptom list with the phrases of a free-text message.
func (b *Bot) handleSymptoms(ctx context.Context, chatID int64, text string) {
	session, err := b.ensureSession(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	session, err = b.usecase.SetSymptomsInput(ctx, session.ID, &entity.SymptomsInputRequest{Input: text})
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.send(ctx, chatID,
		fmt.Sprintf(render.MsgSymptomsNoted, render.RenderSymptoms(session.Report.Symptoms)),
		b.keyboard.AdviceKeyboard(),
	)
}

func (b *Bot) handleLanguage(ctx context.Context, chatID int64, args string) {
	session, err := b.ensureSession(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	if args == "" {
		b.send(ctx, chatID, render.MsgChooseLanguage, b.keyboard.LanguageKeyboard())
		return
	}

	b.setLanguage(ctx, chatID, session.ID, args)
}

func (b *Bot) setLanguage(ctx context.Context, chatID int64, sessionID, raw string) {
	session, err := b.usecase.SetLanguage(ctx, sessionID, raw)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.send(ctx, chatID, fmt.Sprintf(render.MsgLanguageSet, render.RenderLanguage(session.Language)), nil)
}

// handleConditions shows the toggle keyboard, or sets the comma separated
// list given as arguments. "none" clears the list.
func (b *Bot) handleConditions(ctx context.Context, chatID int64, args string) {
	session, err := b.ensureSession(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	if args == "" {
		b.send(ctx, chatID,
			fmt.Sprintf(render.MsgChooseCondition, render.RenderConditions(session.Report.Conditions)),
			b.keyboard.ConditionsKeyboard(session.Report.Conditions),
		)
		return
	}

	raw := []string{}
	if !strings.EqualFold(args, "none") {
		raw = strings.Split(args, ",")
	}

	session, err = b.usecase.SetConditions(ctx, session.ID, raw)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.send(ctx, chatID, fmt.Sprintf(render.MsgConditionsSet, render.RenderConditions(session.Report.Conditions)), nil)
}

func (b *Bot) handleClear(ctx context.Context, chatID int64) {
	session, err := b.ensureSession(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	if _, err := b.usecase.ClearSession(ctx, session.ID); err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.send(ctx, chatID, render.MsgCleared, nil)
}

// handleAdvice runs one "Get Advice" action with the session's conditions and
// language, then sends the segments, the red flags and, if asked for, the audio.
func (b *Bot) handleAdvice(ctx context.Context, chatID int64, withAudio bool) {
	session, err := b.ensureSession(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	if len(session.Report.Symptoms) == 0 {
		b.sendError(ctx, chatID, entity.ErrEmptySymptoms)
		return
	}

	ctx = logger.WithSession(ctx, "TelegramAdvice", session.ID)

	b.send(ctx, chatID, render.MsgProcessing, nil)
	stopTyping := b.startTyping(ctx, chatID)
	defer stopTyping()

	session, err = b.usecase.GenerateAdvice(ctx, session.ID, &entity.AdviceRequest{
		Conditions: conditionNames(session.Report.Conditions),
		Language:   string(session.Language),
		Audio:      withAudio,
	})
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	for _, text := range render.RenderAdvice(session) {
		b.send(ctx, chatID, text, nil)
	}

	if !withAudio {
		return
	}

	if session.Rendered.Audio == nil {
		if session.Rendered.AudioNotice != "" {
			b.send(ctx, chatID, session.Rendered.AudioNotice, nil)
		}
		return
	}

	b.sendAudio(ctx, chatID, session.ID)
}

func (b *Bot) sendAudio(ctx context.Context, chatID int64, sessionID string) {
	data, artifact, err := b.usecase.Audio(ctx, sessionID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{
		Name:  "advice" + audioExtension(artifact.ContentType),
		Bytes: data,
	})
	audio.Title = entity.ReportTitle

	if _, err := b.api.Send(audio); err != nil {
		ctxzap.Error(ctx, "failed to send audio", zap.Error(err))
		b.send(ctx, chatID, entity.AudioUnavailableNotice, nil)
	}
}

func (b *Bot) handleSuggest(ctx context.Context, chatID int64) {
	session, err := b.ensureSession(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	if len(session.Report.Symptoms) == 0 {
		b.sendError(ctx, chatID, entity.ErrEmptySymptoms)
		return
	}

	ctx = logger.WithSession(ctx, "TelegramSuggestions", session.ID)

	stopTyping := b.startTyping(ctx, chatID)
	session, err = b.usecase.GenerateSuggestions(ctx, session.ID, &entity.SuggestionsRequest{})
	stopTyping()
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	switch {
	case session.Suggestions.Failure != entity.FailureNone:
		b.send(ctx, chatID, entity.SuggestionsUnavailableNotice, nil)
	case len(session.Suggestions.Items) == 0:
		b.send(ctx, chatID, render.MsgNoSuggestions, nil)
	default:
		b.send(ctx, chatID, render.MsgSuggestions, b.keyboard.SuggestionsKeyboard(session.Suggestions.Items))
	}
}

func conditionNames(conditions []entity.Condition) []string {
	names := make([]string, len(conditions))
	for i, c := range conditions {
		names[i] = string(c)
	}
	return names
}

func audioExtension(contentType string) string {
	switch contentType {
	case "audio/flac":
		return ".flac"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	default:
		return ".mp3"
	}
}

// isUserError reports errors caused by the user's input rather than by us.
func isUserError(err error) bool {
	return entity.IsValidationError(err) || errors.Is(err, entity.ErrNoAudio)
}
