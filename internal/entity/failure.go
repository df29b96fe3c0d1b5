package entity

import (
	"errors"
	"fmt"
)

// FailureKind classifies why an external call did not produce a usable payload.
type FailureKind string

const (
	FailureNone                 FailureKind = ""
	FailureConfigurationMissing FailureKind = "configuration_missing"
	FailureTransport            FailureKind = "transport_failure"
	FailureMalformedResponse    FailureKind = "malformed_response"
	FailureUserInputInvalid     FailureKind = "user_input_invalid"
)

// Service names used in ServiceError.
const (
	ServiceModel      = "model"
	ServiceTranslator = "translator"
	ServiceSpeech     = "speech"
)

// ServiceError is the typed error every connector returns, so callers branch on
// Kind instead of inspecting error text.
type ServiceError struct {
	Kind    FailureKind
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Service, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewServiceError(service string, kind FailureKind, err error) *ServiceError {
	return &ServiceError{Kind: kind, Service: service, Err: err}
}

// KindOf returns the failure kind carried by err. Errors that are not a
// ServiceError are treated as transport failures; validation sentinels map to
// FailureUserInputInvalid.
func KindOf(err error) FailureKind {
	if err == nil {
		return FailureNone
	}

	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}

	if IsValidationError(err) {
		return FailureUserInputInvalid
	}

	return FailureTransport
}

// IsValidationError reports whether err stems from rejected user input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptySymptoms) ||
		errors.Is(err, ErrUnknownCondition) ||
		errors.Is(err, ErrUnknownLanguage) ||
		errors.Is(err, ErrUnknownSuggestion) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidParameter)
}

// Placeholder strings rendered in place of advice when the model call fails.
const (
	PlaceholderConfigurationMissing = "❌ Hugging Face API Key missing. Please set HF_API_KEY in your .env file."
	PlaceholderTransport            = "[HF Chat Error] the advice service could not be reached. Please try again later."
	PlaceholderMalformed            = "[HF Chat Error] the advice service returned an unexpected response. Please try again later."
)

// Placeholder returns the user-facing stand-in text for a model failure.
func Placeholder(kind FailureKind) string {
	switch kind {
	case FailureConfigurationMissing:
		return PlaceholderConfigurationMissing
	case FailureMalformedResponse:
		return PlaceholderMalformed
	case FailureNone:
		return ""
	default:
		return PlaceholderTransport
	}
}

// AudioUnavailableNotice replaces the audio player when synthesis fails.
const AudioUnavailableNotice = "🔇 Audio could not be generated right now. The text advice is complete."

// SuggestionsUnavailableNotice is shown when follow-up questions could not be produced.
const SuggestionsUnavailableNotice = "No suggestions are available right now."
