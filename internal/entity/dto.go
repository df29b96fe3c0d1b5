package entity

import "time"

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AdviceRequest is the "Get Advice" action.
type AdviceRequest struct {
	Conditions []string `json:"conditions"`
	Language   string   `json:"language"`
	Audio      bool     `json:"audio"`
}

type SymptomsInputRequest struct {
	Input string `json:"input"`
}

type SuggestionsRequest struct {
	Conditions []string `json:"conditions"`
}

type AcceptSuggestionRequest struct {
	Suggestion string `json:"suggestion"`
}

// AdviceAction is the validated form of AdviceRequest handed to the usecase.
type AdviceAction struct {
	Conditions []Condition
	Language   Language
	WithAudio  bool
}

type SessionDTO struct {
	ID          string        `json:"session_id"`
	Report      SymptomReport `json:"report"`
	Input       string        `json:"input"`
	Language    Language      `json:"language"`
	Advice      *AdviceDTO    `json:"advice,omitempty"`
	Suggestions []string      `json:"suggestions"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type AdviceDTO struct {
	Failure     FailureKind       `json:"failure,omitempty"`
	Language    Language          `json:"language"`
	Segments    []RenderedSegment `json:"segments"`
	AudioURL    string            `json:"audio_url,omitempty"`
	AudioNotice string            `json:"audio_notice,omitempty"`
	RedFlags    []string          `json:"red_flags"`
	Disclaimer  string            `json:"disclaimer"`
	GeneratedAt string            `json:"generated_at"`
}

type SuggestionsDTO struct {
	Suggestions []string    `json:"suggestions"`
	Failure     FailureKind `json:"failure,omitempty"`
	Notice      string      `json:"notice,omitempty"`
}

type MetaDTO struct {
	Languages  []LanguageInfo `json:"languages"`
	Conditions []Condition    `json:"conditions"`
	RedFlags   []string       `json:"red_flags"`
	Disclaimer string         `json:"disclaimer"`
}

// AdviceReport is the exportable form of the current rendered advice.
type AdviceReport struct {
	Title       string
	Disclaimer  string
	Symptoms    []string
	Conditions  []Condition
	Language    Language
	Segments    []RenderedSegment
	RedFlags    []string
	GeneratedAt time.Time
}
