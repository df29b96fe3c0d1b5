package speech

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/integration/common"
	pkghttp "github.com/futig/medi-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mmsModelPrefix = "facebook/mms-tts-"

// mmsLanguages maps output languages to the ISO 639-3 suffix of the MMS speech models.
var mmsLanguages = map[entity.Language]string{
	"en": "eng",
	"hi": "hin",
	"mr": "mar",
	"ta": "tam",
	"te": "tel",
	"kn": "kan",
	"gu": "guj",
	"pa": "pan",
	"bn": "ben",
	"ml": "mal",
	"ur": "urd",
}

// HuggingFaceConnector calls a hosted text-to-speech model on the inference router.
type HuggingFaceConnector struct {
	config    config.SpeechConnectorConfig
	apiKey    string
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewHuggingFaceConnector(
	cfg config.SpeechConnectorConfig,
	apiKey string,
	logger *zap.Logger,
) *HuggingFaceConnector {
	return &HuggingFaceConnector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, strings.TrimRight(cfg.HFUrl, "/"), "speech", logger),
		config:    cfg,
		apiKey:    apiKey,
		logger:    logger,
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

func (c *HuggingFaceConnector) Synthesize(ctx context.Context, req *entity.SpeechRequest) (*entity.SpeechAudio, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, entity.NewServiceError(entity.ServiceSpeech, entity.FailureConfigurationMissing, errors.New("HF_API_KEY is not set"))
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, entity.NewServiceError(entity.ServiceSpeech, entity.FailureUserInputInvalid, errors.New("nothing to synthesize"))
	}

	model := c.ModelFor(req.Language)

	ctxzap.Info(ctx, "synthesizing speech",
		zap.String("provider", config.SpeechProviderHuggingFace),
		zap.String("model", model),
		zap.Int("text_length", len(text)),
	)

	data, contentType, err := c.connector.DoRawRequest(ctx, http.MethodPost, "/"+model, &inferenceRequest{Inputs: text},
		pkghttp.WithHeader("Authorization", "Bearer "+c.apiKey),
		pkghttp.WithAccept("audio/*"),
	)
	if err != nil {
		return nil, common.Classify(entity.ServiceSpeech, err)
	}

	if err := checkAudio(data, contentType); err != nil {
		return nil, common.Malformed(entity.ServiceSpeech, err)
	}

	return &entity.SpeechAudio{
		Data:        data,
		ContentType: contentType,
	}, nil
}

// ModelFor picks the MMS model of the requested language when the configured
// model is an MMS one; any other model is used as is.
func (c *HuggingFaceConnector) ModelFor(language entity.Language) string {
	if !strings.HasPrefix(c.config.Model, mmsModelPrefix) {
		return c.config.Model
	}

	if suffix, ok := mmsLanguages[language]; ok {
		return mmsModelPrefix + suffix
	}

	return c.config.Model
}
