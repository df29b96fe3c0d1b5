package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/entity"
)

// Validator checks user input before any outbound call is made.
type Validator struct {
	cfg config.SessionConfig
}

func NewValidator(cfg config.SessionConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAdviceRequest turns an AdviceRequest into an AdviceAction.
// An empty language falls back to the configured default.
func (v *Validator) ValidateAdviceRequest(req *entity.AdviceRequest) (*entity.AdviceAction, error) {
	conditions, err := v.ParseConditions(req.Conditions)
	if err != nil {
		return nil, err
	}

	language, err := v.ParseLanguage(req.Language)
	if err != nil {
		return nil, err
	}

	return &entity.AdviceAction{
		Conditions: conditions,
		Language:   language,
		WithAudio:  req.Audio,
	}, nil
}

// ParseConditions validates tags against the fixed list and drops duplicates.
func (v *Validator) ParseConditions(raw []string) ([]entity.Condition, error) {
	conditions := make([]entity.Condition, 0, len(raw))
	seen := make(map[entity.Condition]bool, len(raw))

	for _, tag := range raw {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		condition, ok := entity.ParseCondition(tag)
		if !ok {
			return nil, fmt.Errorf("%w: %q", entity.ErrUnknownCondition, tag)
		}
		if seen[condition] {
			continue
		}
		seen[condition] = true
		conditions = append(conditions, condition)
	}

	return conditions, nil
}

// ParseLanguage accepts a code or display name; empty means the default language.
func (v *Validator) ParseLanguage(raw string) (entity.Language, error) {
	if strings.TrimSpace(raw) == "" {
		return entity.Language(v.cfg.DefaultLanguage), nil
	}

	language, ok := entity.ParseLanguage(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownLanguage, raw)
	}

	return language, nil
}

// ValidateSymptomsInput bounds the free-text input. Empty input is allowed here:
// it clears the symptom list. Emptiness is rejected only on submit.
func (v *Validator) ValidateSymptomsInput(req *entity.SymptomsInputRequest) error {
	if utf8.RuneCountInString(req.Input) > v.cfg.MaxInputLength {
		return fmt.Errorf("%w: input longer than %d characters", entity.ErrInvalidParameter, v.cfg.MaxInputLength)
	}
	return nil
}

// ValidateAcceptSuggestion requires a non-empty suggestion.
func (v *Validator) ValidateAcceptSuggestion(req *entity.AcceptSuggestionRequest) error {
	if strings.TrimSpace(req.Suggestion) == "" {
		return fmt.Errorf("%w: suggestion", entity.ErrMissingField)
	}
	return nil
}
