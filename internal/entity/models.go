package entity

import (
	"time"
)

// GeneralAdviceLabel labels the text preceding the first clinician block.
const GeneralAdviceLabel = "General Advice"

// TimestampLayout formats RenderedAdvice.GeneratedAt for display.
const TimestampLayout = "2006-01-02 15:04"

// ReportTitle heads exported advice reports.
const ReportTitle = "Virtual Medi Assistant"

// SymptomReport holds what the user told us in this session.
// Symptoms never contain empty or duplicate entries.
type SymptomReport struct {
	Symptoms   []string    `json:"symptoms"`
	Conditions []Condition `json:"conditions"`
}

// AdviceSegment is one clinician's (or the general) portion of an answer.
type AdviceSegment struct {
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label"`
	Body    string `json:"body"`
}

// AdviceResponse is the raw model answer and its segmentation.
type AdviceResponse struct {
	Raw      string          `json:"raw"`
	Segments []AdviceSegment `json:"segments"`
	Failure  FailureKind     `json:"failure,omitempty"`
}

// RenderedSegment is an AdviceSegment after translation.
type RenderedSegment struct {
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label"`
	Body    string `json:"body"`
}

// AudioArtifact points to synthesized speech for one segment.
type AudioArtifact struct {
	Path        string    `json:"-"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	Ordinal     int       `json:"segment_ordinal"`
	CreatedAt   time.Time `json:"created_at"`
}

// RenderedAdvice is what the user sees: translated segments and at most one audio artifact.
type RenderedAdvice struct {
	Language    Language          `json:"language"`
	Segments    []RenderedSegment `json:"segments"`
	Audio       *AudioArtifact    `json:"audio,omitempty"`
	AudioNotice string            `json:"audio_notice,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// SuggestionSet holds up to five follow-up questions derived from the report.
type SuggestionSet struct {
	Items   []string    `json:"items"`
	Failure FailureKind `json:"failure,omitempty"`
}

// MaxSuggestions bounds SuggestionSet.Items.
const MaxSuggestions = 5

// Session is the explicit per-session state passed through the pipeline.
type Session struct {
	ID          string          `json:"session_id"`
	Report      SymptomReport   `json:"report"`
	Language    Language        `json:"language"`
	Advice      *AdviceResponse `json:"advice,omitempty"`
	Rendered    *RenderedAdvice `json:"rendered,omitempty"`
	Suggestions SuggestionSet   `json:"suggestions"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AdviceHistoryRecord is one completed advice action as kept by the history store.
type AdviceHistoryRecord struct {
	ID           string      `json:"id"`
	SessionID    string      `json:"session_id"`
	Language     Language    `json:"language"`
	Symptoms     []string    `json:"symptoms"`
	Conditions   []Condition `json:"conditions"`
	Failure      FailureKind `json:"failure,omitempty"`
	SegmentCount int         `json:"segment_count"`
	RawResponse  string      `json:"raw_response"`
	WithAudio    bool        `json:"with_audio"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Clone returns a deep copy so that a failed update never leaks partial state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	c := *s
	c.Report = SymptomReport{
		Symptoms:   append([]string(nil), s.Report.Symptoms...),
		Conditions: append([]Condition(nil), s.Report.Conditions...),
	}
	c.Suggestions = SuggestionSet{
		Items:   append([]string(nil), s.Suggestions.Items...),
		Failure: s.Suggestions.Failure,
	}

	if s.Advice != nil {
		advice := *s.Advice
		advice.Segments = append([]AdviceSegment(nil), s.Advice.Segments...)
		c.Advice = &advice
	}

	if s.Rendered != nil {
		rendered := *s.Rendered
		rendered.Segments = append([]RenderedSegment(nil), s.Rendered.Segments...)
		if s.Rendered.Audio != nil {
			audio := *s.Rendered.Audio
			rendered.Audio = &audio
		}
		c.Rendered = &rendered
	}

	return &c
}
