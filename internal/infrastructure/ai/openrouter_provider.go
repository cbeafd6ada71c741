package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
)

// DefaultOpenRouterURL はOpenRouterのOpenAI互換エンドポイント
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouterConfig はOpenRouter接続設定
type OpenRouterConfig struct {
	APIKey    string
	BaseURL   string
	Referer   string // HTTP-Referer ヘッダー
	Title     string // X-Title ヘッダー
	MaxTokens int
	Timeout   time.Duration
}

// OpenRouterProvider は1つのモデルに対するチャット補完プロバイダ
type OpenRouterProvider struct {
	client    *openai.Client
	model     string
	maxTokens int
}

var _ repository.ChatProvider = (*OpenRouterProvider)(nil)

// headerTransport は全リクエストにOpenRouter用ヘッダーを付ける
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			clone.Header.Set(k, v)
		}
	}
	resp, err := t.base.RoundTrip(clone)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}
	return promoteErrorPayload(resp)
}

// errorPayload はOpenRouterがHTTP 200で返すことのあるエラーボディ
type errorPayload struct {
	Error *struct {
		Code json.RawMessage `json:"code"`
	} `json:"error"`
}

// promoteErrorPayload は200でも {"error":{...}} を含むレスポンスを失敗ステータスに書き換える
func promoteErrorPayload(resp *http.Response) (*http.Response, error) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	var payload errorPayload
	if json.Unmarshal(body, &payload) != nil || payload.Error == nil {
		return resp, nil
	}

	status := http.StatusBadGateway
	var code int
	if json.Unmarshal(payload.Error.Code, &code) == nil && code >= 400 && code <= 599 {
		status = code
	}
	resp.StatusCode = status
	resp.Status = fmt.Sprintf("%d %s", status, http.StatusText(status))
	return resp, nil
}

// NewOpenRouterClient はモデル間で共有するgo-openaiクライアントを作成
func NewOpenRouterClient(cfg OpenRouterConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = DefaultOpenRouterURL
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": cfg.Referer,
				"X-Title":      cfg.Title,
			},
		},
	}
	return openai.NewClientWithConfig(clientCfg)
}

// NewOpenRouterProvider は指定モデルのプロバイダを作成
func NewOpenRouterProvider(client *openai.Client, model string, maxTokens int) *OpenRouterProvider {
	return &OpenRouterProvider{client: client, model: model, maxTokens: maxTokens}
}

// Name はモデル名
func (p *OpenRouterProvider) Name() string {
	return p.model
}

// Complete はシステム指示とユーザープロンプトを1回だけ送信する
// エラーペイロードやHTTPエラーは error として返す
func (p *OpenRouterProvider) Complete(ctx context.Context, req model.ChatRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		MaxTokens: p.maxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%s: APIエラー (status: %d): %s", p.model, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%s: リクエストに失敗: %w", p.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
