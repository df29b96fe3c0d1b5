package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/integration/common"
	pkghttp "github.com/futig/medi-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// GoogleConnector synthesizes MP3 speech through the translate_tts endpoint.
// The endpoint only accepts short texts, so longer input is sent in chunks and
// the returned MP3 frames are concatenated.
type GoogleConnector struct {
	config    config.SpeechConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewGoogleConnector(
	cfg config.SpeechConnectorConfig,
	logger *zap.Logger,
) *GoogleConnector {
	return &GoogleConnector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, cfg.Url, "speech", logger),
		config:    cfg,
		logger:    logger,
	}
}

func (c *GoogleConnector) Synthesize(ctx context.Context, req *entity.SpeechRequest) (*entity.SpeechAudio, error) {
	chunks := SplitText(req.Text, c.config.ChunkSize)
	if len(chunks) == 0 {
		return nil, entity.NewServiceError(entity.ServiceSpeech, entity.FailureUserInputInvalid, errors.New("nothing to synthesize"))
	}

	ctxzap.Info(ctx, "synthesizing speech",
		zap.String("provider", config.SpeechProviderGoogle),
		zap.String("language", string(req.Language)),
		zap.Int("chunks", len(chunks)),
	)

	var audio bytes.Buffer
	for i, chunk := range chunks {
		query := url.Values{}
		query.Set("ie", "UTF-8")
		query.Set("q", chunk)
		query.Set("tl", string(req.Language))
		query.Set("client", "tw-ob")
		query.Set("total", strconv.Itoa(len(chunks)))
		query.Set("idx", strconv.Itoa(i))
		query.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

		data, contentType, err := c.connector.DoRawRequest(ctx, http.MethodGet, c.config.SpeechEndpoint, nil,
			pkghttp.WithQuery(query),
			pkghttp.WithAccept("audio/mpeg"),
			pkghttp.WithHeader("User-Agent", browserUserAgent),
		)
		if err != nil {
			return nil, common.Classify(entity.ServiceSpeech, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err))
		}

		if err := checkAudio(data, contentType); err != nil {
			return nil, common.Malformed(entity.ServiceSpeech, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err))
		}

		audio.Write(data)
	}

	return &entity.SpeechAudio{
		Data:        audio.Bytes(),
		ContentType: "audio/mpeg",
	}, nil
}

func checkAudio(data []byte, contentType string) error {
	if len(data) == 0 {
		return errors.New("empty audio body")
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "audio/") {
		return fmt.Errorf("unexpected content type %q", contentType)
	}
	return nil
}

// SplitText cuts text into pieces of at most limit runes, preferring to break
// at whitespace. Words longer than limit are cut hard.
func SplitText(text string, limit int) []string {
	if limit <= 0 {
		limit = 100
	}

	var (
		chunks  []string
		current []rune
	)

	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		w := []rune(word)

		for len(w) > limit {
			flush()
			chunks = append(chunks, string(w[:limit]))
			w = w[limit:]
		}

		if len(current) > 0 && len(current)+1+len(w) > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, w...)
	}
	flush()

	return chunks
}
