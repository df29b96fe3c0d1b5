package entity

// CompletionKind tells connectors which user action a completion serves.
type CompletionKind string

const (
	CompletionAdvice      CompletionKind = "advice"
	CompletionSuggestions CompletionKind = "suggestions"
)

// CompletionRequest is one chat-completion call: a system instruction and a
// single user turn. MaxTokens <= 0 means the connector default.
type CompletionRequest struct {
	Kind              CompletionKind
	SystemInstruction string
	Prompt            string
	MaxTokens         int
}

// SpeechRequest asks for speech of Text in Language.
type SpeechRequest struct {
	Text     string
	Language Language
}

// SpeechAudio is synthesized speech as returned by a provider.
type SpeechAudio struct {
	Data        []byte
	ContentType string
}
