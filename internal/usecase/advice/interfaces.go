package advice

import (
	"context"

	"github.com/futig/medi-assistant/internal/entity"
)

type LLMConnector interface {
	Complete(ctx context.Context, req *entity.CompletionRequest) (string, error)
}

// TranslateConnector translates a batch of texts in one call. The result has the
// same length and order as texts.
type TranslateConnector interface {
	Translate(ctx context.Context, texts []string, target entity.Language) ([]string, error)
}

type SpeechConnector interface {
	Synthesize(ctx context.Context, req *entity.SpeechRequest) (*entity.SpeechAudio, error)
}
