package advice

import (
	"fmt"

	"github.com/futig/medi-assistant/internal/entity"
	adviceuc "github.com/futig/medi-assistant/internal/usecase/advice"
)

func toSessionDTO(session *entity.Session) *entity.SessionDTO {
	dto := &entity.SessionDTO{
		ID:          session.ID,
		Report:      session.Report,
		Input:       adviceuc.JoinSymptoms(session.Report.Symptoms),
		Language:    session.Language,
		Suggestions: session.Suggestions.Items,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}

	if session.Rendered != nil {
		dto.Advice = toAdviceDTO(session)
	}

	return dto
}

func toAdviceDTO(session *entity.Session) *entity.AdviceDTO {
	rendered := session.Rendered

	dto := &entity.AdviceDTO{
		Language:    rendered.Language,
		Segments:    rendered.Segments,
		AudioNotice: rendered.AudioNotice,
		RedFlags:    entity.RedFlags,
		Disclaimer:  entity.Disclaimer,
		GeneratedAt: rendered.GeneratedAt.Format(entity.TimestampLayout),
	}

	if session.Advice != nil {
		dto.Failure = session.Advice.Failure
	}

	if rendered.Audio != nil {
		dto.AudioURL = fmt.Sprintf("/sessions/%s/audio", session.ID)
	}

	return dto
}

func toSuggestionsDTO(set entity.SuggestionSet) *entity.SuggestionsDTO {
	dto := &entity.SuggestionsDTO{
		Suggestions: set.Items,
		Failure:     set.Failure,
	}

	if dto.Suggestions == nil {
		dto.Suggestions = []string{}
	}

	if set.Failure != entity.FailureNone {
		dto.Notice = entity.SuggestionsUnavailableNotice
	}

	return dto
}

func toMetaDTO() *entity.MetaDTO {
	return &entity.MetaDTO{
		Languages:  entity.Languages,
		Conditions: entity.Conditions,
		RedFlags:   entity.RedFlags,
		Disclaimer: entity.Disclaimer,
	}
}
