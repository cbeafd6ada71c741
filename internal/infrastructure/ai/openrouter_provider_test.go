package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sulam-App/internal/domain/model"
)

type capturedChat struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenRouterStub(t *testing.T, status int, body string, captured *capturedChat, headers *http.Header) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if captured != nil {
			_ = json.NewDecoder(r.Body).Decode(captured)
		}
		if headers != nil {
			*headers = r.Header.Clone()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func testOpenRouterConfig(url string) OpenRouterConfig {
	return OpenRouterConfig{
		APIKey:    "sk-test",
		BaseURL:   url,
		Referer:   "https://map.example.com",
		Title:     "KUL City Walk AI Assistant",
		MaxTokens: 150,
		Timeout:   2 * time.Second,
	}
}

func TestOpenRouterProvider_Complete(t *testing.T) {
	var captured capturedChat
	var headers http.Header
	srv := newOpenRouterStub(t, http.StatusOK,
		`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"It is a mosque."}}]}`,
		&captured, &headers)
	defer srv.Close()

	p := NewOpenRouterProvider(NewOpenRouterClient(testOpenRouterConfig(srv.URL)), "z-ai/glm-4.5-air:free", 150)
	got, err := p.Complete(context.Background(), model.ChatRequest{SystemInstruction: "sys", UserPrompt: "user"})

	require.NoError(t, err)
	assert.Equal(t, "It is a mosque.", got)
	assert.Equal(t, "z-ai/glm-4.5-air:free", captured.Model)
	assert.Equal(t, 150, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Content)
	assert.Equal(t, "Bearer sk-test", headers.Get("Authorization"))
	assert.Equal(t, "https://map.example.com", headers.Get("HTTP-Referer"))
	assert.Equal(t, "KUL City Walk AI Assistant", headers.Get("X-Title"))
}

func TestOpenRouterProvider_ErrorPayload(t *testing.T) {
	srv := newOpenRouterStub(t, http.StatusTooManyRequests,
		`{"error":{"message":"Rate limit exceeded","code":429}}`, nil, nil)
	defer srv.Close()

	p := NewOpenRouterProvider(NewOpenRouterClient(testOpenRouterConfig(srv.URL)), "m", 150)
	_, err := p.Complete(context.Background(), model.ChatRequest{UserPrompt: "q"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rate limit exceeded")
}

func TestOpenRouterProvider_ErrorPayloadWithStatusOK(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus string
	}{
		{"数値コード", `{"error":{"message":"Provider returned error","code":429}}`, "status: 429"},
		{"コードなし", `{"error":{"message":"Provider returned error"}}`, "status: 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpenRouterStub(t, http.StatusOK, tt.body, nil, nil)
			defer srv.Close()

			p := NewOpenRouterProvider(NewOpenRouterClient(testOpenRouterConfig(srv.URL)), "m", 150)
			got, err := p.Complete(context.Background(), model.ChatRequest{UserPrompt: "q"})

			require.Error(t, err)
			assert.Empty(t, got)
			assert.Contains(t, err.Error(), "Provider returned error")
			assert.Contains(t, err.Error(), tt.wantStatus)
		})
	}
}

func TestOpenRouterProvider_NoChoicesIsEmpty(t *testing.T) {
	srv := newOpenRouterStub(t, http.StatusOK, `{"id":"x","choices":[]}`, nil, nil)
	defer srv.Close()

	p := NewOpenRouterProvider(NewOpenRouterClient(testOpenRouterConfig(srv.URL)), "m", 150)
	got, err := p.Complete(context.Background(), model.ChatRequest{UserPrompt: "q"})

	require.NoError(t, err)
	assert.Empty(t, got)
}
