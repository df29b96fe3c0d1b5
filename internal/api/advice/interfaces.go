package advice

import (
	"context"

	"github.com/futig/medi-assistant/internal/entity"
)

type AdviceUsecase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
	SetSymptomsInput(ctx context.Context, id string, req *entity.SymptomsInputRequest) (*entity.Session, error)
	GenerateAdvice(ctx context.Context, id string, req *entity.AdviceRequest) (*entity.Session, error)
	GenerateSuggestions(ctx context.Context, id string, req *entity.SuggestionsRequest) (*entity.Session, error)
	AcceptSuggestion(ctx context.Context, id string, req *entity.AcceptSuggestionRequest) (*entity.Session, error)
	Audio(ctx context.Context, id string) ([]byte, *entity.AudioArtifact, error)
	Report(ctx context.Context, id string) (*entity.AdviceReport, error)
	History(ctx context.Context, id string, limit int) ([]*entity.AdviceHistoryRecord, error)
}
