package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/futig/medi-assistant/internal/entity"
)

// MaxMessageLength stays below Telegram's 4096 character limit.
const MaxMessageLength = 4000

const (
	MsgWelcome = `👋 Hi! I am the Virtual Medi Assistant.

Tell me how you feel and I will ask several independent doctors for general guidance.
This is not a diagnosis.`

	MsgHelp = `🤖 Commands:

/start - Start over
/help - Show this help
/lang <code> - Output language, e.g. /lang hi
/conditions <a, b> - Previous conditions, or /conditions none
/advice - Get text advice
/audio - Get advice with audio
/suggest - Suggest related symptoms
/clear - Forget symptoms and advice

How it works:
1. Send your symptoms as a message, e.g. "fever with headache"
2. Optionally set previous conditions and language
3. Ask for /advice`

	MsgSymptomsNoted = `📝 Symptoms noted:
%s

Send /advice for text or /audio for text with audio.`

	MsgAcceptedSuggestion = `➕ Added. Current symptoms:
%s`

	MsgLanguageSet     = `🌐 Output language: %s`
	MsgChooseLanguage  = `🌐 Choose the output language:`
	MsgConditionsSet   = `📋 Previous conditions: %s`
	MsgChooseCondition = `📋 Tap to toggle previous conditions. Currently: %s`
	MsgCleared         = `🧹 Cleared. Send your symptoms to start again.`
	MsgProcessing      = `⏳ Asking the doctors, this can take a minute...`
	MsgSuggestions     = `🤔 Do any of these apply? Tap to add them to your symptoms.`
	MsgNoSuggestions   = `🤔 No suggestions right now. Add more detail to your symptoms and try again.`
	MsgNoAudio         = `🔇 No audio yet. Use /audio to get advice with audio.`
	MsgRateLimited     = `⚠️ Too many requests. Please wait a little.`

	ErrGeneric            = `❌ Something went wrong. Please try again or press /start`
	ErrNetworkIssue       = `❌ Connection problem. Please try again later.`
	ErrTimeout            = `❌ That took too long. Please try again.`
	ErrUnknownCommand     = `❌ Unknown command. See /help`
	ErrSuggestionExpired  = `❌ That suggestion is no longer available. Use /suggest again.`
	ErrUnsupportedMessage = `❌ Please describe your symptoms as text.`
)

// RenderAdvice turns the rendered advice of a session into chat messages: one
// per segment, then the red flags with the disclaimer.
func RenderAdvice(session *entity.Session) []string {
	if session == nil || session.Rendered == nil {
		return nil
	}

	messages := make([]string, 0, len(session.Rendered.Segments)+1)
	for _, segment := range session.Rendered.Segments {
		text := fmt.Sprintf("🩺 %s\n\n%s", segment.Label, segment.Body)
		messages = append(messages, SplitMessage(text, MaxMessageLength)...)
	}

	var sb strings.Builder
	sb.WriteString("🚨 Seek emergency care for:\n")
	for _, flag := range entity.RedFlags {
		sb.WriteString("• ")
		sb.WriteString(flag)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(entity.Disclaimer)
	sb.WriteString("\n\n🕒 ")
	sb.WriteString(session.Rendered.GeneratedAt.Format(entity.TimestampLayout))

	return append(messages, sb.String())
}

func RenderSymptoms(symptoms []string) string {
	if len(symptoms) == 0 {
		return "• none"
	}

	var sb strings.Builder
	for i, s := range symptoms {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("• ")
		sb.WriteString(s)
	}
	return sb.String()
}

func RenderConditions(conditions []entity.Condition) string {
	if len(conditions) == 0 {
		return "none"
	}

	names := make([]string, len(conditions))
	for i, c := range conditions {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// RenderLanguage shows a language by name when it is known.
func RenderLanguage(language entity.Language) string {
	for _, info := range entity.Languages {
		if info.Code == language {
			return info.Name
		}
	}
	return string(language)
}

// SplitMessage cuts text into pieces of at most limit runes, preferring line
// breaks as cut points.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// ClassifyError picks the user-facing text for an error. Rejected input is
// echoed back since its message is written for the user.
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	switch {
	case errors.Is(err, entity.ErrUnknownSuggestion):
		return ErrSuggestionExpired
	case errors.Is(err, entity.ErrNoAudio):
		return MsgNoAudio
	case entity.IsValidationError(err):
		return "❌ " + capitalize(inputProblem(err))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}

// inputProblem drops the wrapping context in front of a validation sentinel,
// keeping the sentinel text and its detail.
func inputProblem(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		entity.ErrEmptySymptoms,
		entity.ErrUnknownCondition,
		entity.ErrUnknownLanguage,
		entity.ErrMissingField,
		entity.ErrInvalidParameter,
	} {
		if !errors.Is(err, sentinel) {
			continue
		}
		if i := strings.Index(msg, sentinel.Error()); i >= 0 {
			return msg[i:]
		}
		return sentinel.Error()
	}
	return msg
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}
