package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(url string) config.TranslatorConnectorConfig {
	return config.TranslatorConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			BreakerOpenTimeout:    time.Second,
		},
		Url:               url,
		TranslateEndpoint: "/translate",
		APIKey:            "lt-key",
	}
}

func TestConnector_Translate(t *testing.T) {
	var got translateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"translatedText":["सामान्य सलाह","आराम करें"]}`)
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), zap.NewNop())

	out, err := c.Translate(context.Background(), []string{"General Advice", "Rest"}, "hi")
	require.NoError(t, err)

	assert.Equal(t, []string{"सामान्य सलाह", "आराम करें"}, out)
	assert.Equal(t, translateRequest{
		Q:      []string{"General Advice", "Rest"},
		Source: "auto",
		Target: "hi",
		Format: "text",
		APIKey: "lt-key",
	}, got)
}

func TestConnector_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   entity.FailureKind
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":"slow down"}`, want: entity.FailureTransport},
		{name: "bad json", status: http.StatusOK, body: `{"translatedText":`, want: entity.FailureMalformedResponse},
		{name: "count mismatch", status: http.StatusOK, body: `{"translatedText":["only one"]}`, want: entity.FailureMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewConnector(testConfig(srv.URL), zap.NewNop())

			_, err := c.Translate(context.Background(), []string{"a", "b"}, "ta")
			require.Error(t, err)
			assert.Equal(t, tt.want, entity.KindOf(err))
		})
	}
}

func TestConnector_EmptyBatchMakesNoCall(t *testing.T) {
	c := NewConnector(testConfig("http://127.0.0.1:1"), zap.NewNop())

	out, err := c.Translate(context.Background(), nil, "hi")
	require.NoError(t, err)
	assert.Empty(t, out)
}
