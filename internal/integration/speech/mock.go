package speech

import (
	"context"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// silentFrame is a single silent MPEG-1 Layer III frame header followed by padding.
var silentFrame = append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 413)...)

type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Synthesize(ctx context.Context, req *entity.SpeechRequest) (*entity.SpeechAudio, error) {
	ctxzap.Info(ctx, "[MOCK] synthesizing speech",
		zap.String("language", string(req.Language)),
		zap.Int("text_length", len(req.Text)),
	)

	data := append([]byte(nil), silentFrame...)
	return &entity.SpeechAudio{Data: data, ContentType: "audio/mpeg"}, nil
}
