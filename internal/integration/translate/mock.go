package translate

import (
	"context"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector tags every text with the target language instead of translating.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Translate(ctx context.Context, texts []string, target entity.Language) ([]string, error) {
	ctxzap.Info(ctx, "[MOCK] translating", zap.String("target", string(target)), zap.Int("texts", len(texts)))

	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "[" + string(target) + "] " + text
	}

	return out, nil
}
