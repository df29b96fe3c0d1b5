package keyboard

import (
	"fmt"
	"hash/fnv"

	"github.com/futig/medi-assistant/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxButtonText keeps long suggestions readable on small screens.
const maxButtonText = 60

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// AdviceKeyboard offers the next steps once symptoms are known.
func (b *Builder) AdviceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🩺 Get advice", EncodeCallback(ActionCommand, "advice")),
			tgbotapi.NewInlineKeyboardButtonData("🔊 With audio", EncodeCallback(ActionCommand, "audio")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤔 Suggest related symptoms", EncodeCallback(ActionCommand, "suggest")),
		),
	)
}

// SuggestionsKeyboard has one button per suggestion. Buttons carry a
// fingerprint of the text because callback data is limited to 64 bytes.
func (b *Builder) SuggestionsKeyboard(items []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				truncate(item, maxButtonText),
				EncodeCallback(ActionSuggestion, Fingerprint(item)),
			),
		))
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// LanguageKeyboard lists the output languages two per row.
func (b *Builder) LanguageKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}

	for _, info := range entity.Languages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			info.Name,
			EncodeCallback(ActionLanguage, string(info.Code)),
		))
		if len(row) == 2 {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// ConditionsKeyboard marks the selected previous conditions with a check.
func (b *Builder) ConditionsKeyboard(selected []entity.Condition) tgbotapi.InlineKeyboardMarkup {
	chosen := make(map[entity.Condition]bool, len(selected))
	for _, c := range selected {
		chosen[c] = true
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entity.Conditions))
	for _, c := range entity.Conditions {
		text := string(c)
		if chosen[c] {
			text = "✅ " + text
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text, EncodeCallback(ActionCondition, string(c))),
		))
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

// Fingerprint identifies a suggestion in callback data. It does not depend on
// the position, so buttons stay valid after other suggestions are accepted.
func Fingerprint(item string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(item))
	return fmt.Sprintf("%08x", h.Sum32())
}
