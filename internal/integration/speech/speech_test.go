package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(url string) config.SpeechConnectorConfig {
	return config.SpeechConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			BreakerOpenTimeout:    time.Second,
		},
		Provider:       config.SpeechProviderGoogle,
		Url:            url,
		SpeechEndpoint: "/translate_tts",
		ChunkSize:      20,
		HFUrl:          url,
		Model:          "facebook/mms-tts-eng",
	}
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "short", text: "Rest well", limit: 20, want: []string{"Rest well"}},
		{name: "breaks at spaces", text: "drink water and rest today", limit: 12, want: []string{"drink water", "and rest", "today"}},
		{name: "long word", text: "abcdefghij", limit: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "blank", text: " \n\t ", limit: 10, want: nil},
		{name: "multibyte", text: "आराम करें पानी पिएं", limit: 9, want: []string{"आराम करें", "पानी पिएं"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitText(tt.text, tt.limit)
			assert.Equal(t, tt.want, got)
			for _, chunk := range got {
				assert.LessOrEqual(t, utf8.RuneCountInString(chunk), tt.limit)
			}
		})
	}
}

func TestGoogleConnector_ChunksAndConcatenates(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []map[string]string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate_tts", r.URL.Path)
		q := r.URL.Query()

		mu.Lock()
		queries = append(queries, map[string]string{
			"q": q.Get("q"), "tl": q.Get("tl"), "idx": q.Get("idx"), "total": q.Get("total"), "client": q.Get("client"),
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = io.WriteString(w, "<"+q.Get("idx")+">")
	}))
	defer srv.Close()

	c := NewGoogleConnector(testConfig(srv.URL), zap.NewNop())

	audio, err := c.Synthesize(context.Background(), &entity.SpeechRequest{
		Text:     "Drink plenty of water and rest for two days",
		Language: "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, "audio/mpeg", audio.ContentType)
	assert.Equal(t, "<0><1><2>", string(audio.Data))

	require.Len(t, queries, 3)
	assert.Equal(t, "Drink plenty of", queries[0]["q"])
	assert.Equal(t, "hi", queries[0]["tl"])
	assert.Equal(t, "tw-ob", queries[0]["client"])
	assert.Equal(t, "3", queries[2]["total"])
}

func TestGoogleConnector_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        entity.FailureKind
	}{
		{name: "server error", status: http.StatusInternalServerError, contentType: "text/plain", body: "oops", want: entity.FailureTransport},
		{name: "html instead of audio", status: http.StatusOK, contentType: "text/html", body: "<html></html>", want: entity.FailureMalformedResponse},
		{name: "empty audio", status: http.StatusOK, contentType: "audio/mpeg", body: "", want: entity.FailureMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewGoogleConnector(testConfig(srv.URL), zap.NewNop())

			_, err := c.Synthesize(context.Background(), &entity.SpeechRequest{Text: "hello", Language: "en"})
			require.Error(t, err)
			assert.Equal(t, tt.want, entity.KindOf(err))
		})
	}
}

func TestGoogleConnector_EmptyText(t *testing.T) {
	c := NewGoogleConnector(testConfig("http://127.0.0.1:1"), zap.NewNop())

	_, err := c.Synthesize(context.Background(), &entity.SpeechRequest{Text: "  ", Language: "en"})
	assert.Equal(t, entity.FailureUserInputInvalid, entity.KindOf(err))
}

func TestHuggingFaceConnector_Synthesize(t *testing.T) {
	var (
		path string
		auth string
		body inferenceRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "audio/flac")
		_, _ = io.WriteString(w, "fLaC")
	}))
	defer srv.Close()

	c := NewHuggingFaceConnector(testConfig(srv.URL), "hf_key", zap.NewNop())

	audio, err := c.Synthesize(context.Background(), &entity.SpeechRequest{Text: "Rest today", Language: "ta"})
	require.NoError(t, err)

	assert.Equal(t, "/facebook/mms-tts-tam", path)
	assert.Equal(t, "Bearer hf_key", auth)
	assert.Equal(t, "Rest today", body.Inputs)
	assert.Equal(t, "audio/flac", audio.ContentType)
	assert.Equal(t, []byte("fLaC"), audio.Data)
}

func TestHuggingFaceConnector_MissingKey(t *testing.T) {
	c := NewHuggingFaceConnector(testConfig("http://127.0.0.1:1"), "", zap.NewNop())

	_, err := c.Synthesize(context.Background(), &entity.SpeechRequest{Text: "x", Language: "en"})
	assert.Equal(t, entity.FailureConfigurationMissing, entity.KindOf(err))
}

func TestHuggingFaceConnector_ModelFor(t *testing.T) {
	cfg := testConfig("http://unused")
	c := NewHuggingFaceConnector(cfg, "k", zap.NewNop())
	assert.Equal(t, "facebook/mms-tts-urd", c.ModelFor("ur"))
	assert.Equal(t, "facebook/mms-tts-eng", c.ModelFor("xx"))

	cfg.Model = "espnet/kan-bayashi_ljspeech_vits"
	c = NewHuggingFaceConnector(cfg, "k", zap.NewNop())
	assert.Equal(t, "espnet/kan-bayashi_ljspeech_vits", c.ModelFor("hi"))
}

func TestMockConnector(t *testing.T) {
	audio, err := NewMockConnector(zap.NewNop()).Synthesize(context.Background(), &entity.SpeechRequest{Text: "x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(audio.ContentType, "audio/"))
	assert.NotEmpty(t, audio.Data)
}
