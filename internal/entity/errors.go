package entity

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNoAdvice        = errors.New("no advice generated for session")
	ErrNoAudio         = errors.New("no audio advice available")

	// Validation errors
	ErrMissingField      = errors.New("required field is missing")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrEmptySymptoms     = errors.New("please enter your symptoms")
	ErrUnknownCondition  = errors.New("unknown previous condition")
	ErrUnknownLanguage   = errors.New("unsupported output language")
	ErrUnknownSuggestion = errors.New("suggestion is not part of the current set")
)
