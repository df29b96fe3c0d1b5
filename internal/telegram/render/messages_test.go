package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	parts := SplitMessage("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, parts)

	parts = SplitMessage(strings.Repeat("я", 25), 10)
	require.Len(t, parts, 3)
	assert.Equal(t, strings.Repeat("я", 10), parts[0])
	assert.Equal(t, strings.Repeat("я", 5), parts[2])
}

func TestRenderAdvice(t *testing.T) {
	session := &entity.Session{
		Rendered: &entity.RenderedAdvice{
			Language: "en",
			Segments: []entity.RenderedSegment{
				{Ordinal: 0, Label: entity.GeneralAdviceLabel, Body: "Rest."},
				{Ordinal: 1, Label: "Dr. A, GP", Body: "Drink water."},
			},
			GeneratedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		},
	}

	msgs := RenderAdvice(session)
	require.Len(t, msgs, 3)
	assert.Equal(t, "🩺 General Advice\n\nRest.", msgs[0])
	assert.Equal(t, "🩺 Dr. A, GP\n\nDrink water.", msgs[1])
	assert.Contains(t, msgs[2], "• Seizure")
	assert.Contains(t, msgs[2], entity.Disclaimer)
	assert.Contains(t, msgs[2], "2025-03-01 10:30")

	assert.Nil(t, RenderAdvice(&entity.Session{}))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "❌ Please enter your symptoms", ClassifyError(fmt.Errorf("generate advice: %w", entity.ErrEmptySymptoms)))
	assert.Equal(t, ErrSuggestionExpired, ClassifyError(entity.ErrUnknownSuggestion))
	assert.Equal(t, MsgNoAudio, ClassifyError(entity.ErrNoAudio))
	assert.Equal(t, ErrGeneric, ClassifyError(errors.New("boom")))
	assert.Equal(t, ErrGeneric, ClassifyError(nil))
}

func TestRenderHelpers(t *testing.T) {
	assert.Equal(t, "• none", RenderSymptoms(nil))
	assert.Equal(t, "• a\n• b", RenderSymptoms([]string{"a", "b"}))
	assert.Equal(t, "none", RenderConditions(nil))
	assert.Equal(t, "Asthma, Diabetes", RenderConditions([]entity.Condition{entity.ConditionAsthma, entity.ConditionDiabetes}))
	assert.Equal(t, "Tamil", RenderLanguage("ta"))
	assert.Equal(t, "xx", RenderLanguage("xx"))
}
