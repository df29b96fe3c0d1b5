package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible chat-completion endpoint
// (the Hugging Face router by default). It never retries.
type Connector struct {
	config config.LLMConnectorConfig
	client *openai.Client
	hasKey bool
	logger *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	apiKey string,
	logger *zap.Logger,
) *Connector {
	base := common.NewBaseConnector(cfg.HTTPClientConfig, cfg.Url, "llm", logger)

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.Url, "/")
	clientCfg.HTTPClient = base.HTTPClient()

	return &Connector{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
		hasKey: strings.TrimSpace(apiKey) != "",
		logger: logger,
	}
}

// Complete sends one system instruction and one user prompt and returns the
// text of the first choice.
func (c *Connector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	if !c.hasKey {
		return "", entity.NewServiceError(entity.ServiceModel, entity.FailureConfigurationMissing,
			errors.New("HF_API_KEY is not set"))
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	ctxzap.Info(ctx, "requesting chat completion",
		zap.String("kind", string(req.Kind)),
		zap.String("model", c.config.Model),
		zap.Int("max_tokens", maxTokens),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", entity.NewServiceError(entity.ServiceModel, entity.FailureMalformedResponse,
			errors.New("response has no choices"))
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", entity.NewServiceError(entity.ServiceModel, entity.FailureMalformedResponse,
			errors.New("first choice has empty content"))
	}

	ctxzap.Info(ctx, "chat completion received",
		zap.String("kind", string(req.Kind)),
		zap.Int("content_length", len(content)),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)

	return content, nil
}

// classify maps SDK errors onto the failure taxonomy. Error statuses are
// transport failures; a 2xx body that is not a completion is malformed.
func classify(err error) error {
	var (
		apiErr    *openai.APIError
		reqErr    *openai.RequestError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &apiErr):
		return entity.NewServiceError(entity.ServiceModel, entity.FailureTransport,
			fmt.Errorf("status %d: %w", apiErr.HTTPStatusCode, err))
	case errors.As(err, &reqErr):
		return entity.NewServiceError(entity.ServiceModel, entity.FailureTransport,
			fmt.Errorf("status %d: %w", reqErr.HTTPStatusCode, err))
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return entity.NewServiceError(entity.ServiceModel, entity.FailureMalformedResponse, err)
	default:
		return entity.NewServiceError(entity.ServiceModel, entity.FailureTransport, err)
	}
}
