package translate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/integration/common"
	pkghttp "github.com/futig/medi-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector calls a LibreTranslate-compatible /translate endpoint.
type Connector struct {
	config    config.TranslatorConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.TranslatorConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, cfg.Url, "translator", logger),
		config:    cfg,
		logger:    logger,
	}
}

type translateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
	APIKey string   `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText []string `json:"translatedText"`
}

// Translate sends all texts in a single request with automatic source detection.
func (c *Connector) Translate(ctx context.Context, texts []string, target entity.Language) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	ctxzap.Info(ctx, "translating via translation service",
		zap.String("target", string(target)),
		zap.Int("texts", len(texts)),
	)

	req := &translateRequest{
		Q:      texts,
		Source: "auto",
		Target: string(target),
		Format: "text",
		APIKey: c.config.APIKey,
	}

	var resp translateResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.TranslateEndpoint, req, &resp)
	if err != nil {
		return nil, common.Classify(entity.ServiceTranslator, err)
	}

	if len(resp.TranslatedText) != len(texts) {
		return nil, common.Malformed(entity.ServiceTranslator,
			fmt.Errorf("expected %d translations, got %d", len(texts), len(resp.TranslatedText)))
	}

	return resp.TranslatedText, nil
}
