package bot

import (
	"context"

	"github.com/futig/medi-assistant/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AdviceUsecase is the part of the advice pipeline the bot drives.
type AdviceUsecase interface {
	EnsureSession(ctx context.Context, id string) (*entity.Session, error)
	ClearSession(ctx context.Context, id string) (*entity.Session, error)
	SetSymptomsInput(ctx context.Context, id string, req *entity.SymptomsInputRequest) (*entity.Session, error)
	SetConditions(ctx context.Context, id string, raw []string) (*entity.Session, error)
	SetLanguage(ctx context.Context, id, raw string) (*entity.Session, error)
	GenerateAdvice(ctx context.Context, id string, req *entity.AdviceRequest) (*entity.Session, error)
	GenerateSuggestions(ctx context.Context, id string, req *entity.SuggestionsRequest) (*entity.Session, error)
	AcceptSuggestion(ctx context.Context, id string, req *entity.AcceptSuggestionRequest) (*entity.Session, error)
	Audio(ctx context.Context, id string) ([]byte, *entity.AudioArtifact, error)
}

// botAPI is satisfied by *tgbotapi.BotAPI.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}
