package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
)

// DefaultGeminiURL はGemini APIのベースURL
const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient はGemini APIとの通信を担当するクライアント
// AI_PROVIDERS に gemini:<model> と書いた場合にチェーンの1つとして使われる
type GeminiClient struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
}

var _ repository.ChatProvider = (*GeminiClient)(nil)

// NewGeminiClient は新しいGeminiClientインスタンスを作成
func NewGeminiClient(apiKey, baseURL, model string, maxOutputTokens int, timeout time.Duration) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	return &GeminiClient{
		apiKey:          apiKey,
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		model:           model,
		maxOutputTokens: maxOutputTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GeminiRequest はGemini APIへのリクエスト構造体
type GeminiRequest struct {
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Contents          []Content         `json:"contents"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// GenerationConfig は生成パラメータ
type GenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

// Content はリクエストの内容
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part はテキスト部分
type Part struct {
	Text string `json:"text"`
}

// GeminiResponse はGemini APIからのレスポンス構造体
type GeminiResponse struct {
	Candidates []Candidate  `json:"candidates"`
	Error      *GeminiError `json:"error,omitempty"`
}

// Candidate は生成された候補
type Candidate struct {
	Content Content `json:"content"`
}

// GeminiError はエラーペイロード
type GeminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Name はプロバイダ名
func (c *GeminiClient) Name() string {
	return "gemini:" + c.model
}

// Complete はGemini APIを使って回答を生成する
func (c *GeminiClient) Complete(ctx context.Context, chat model.ChatRequest) (string, error) {
	req := GeminiRequest{
		Contents: []Content{
			{
				Role:  "user",
				Parts: []Part{{Text: chat.UserPrompt}},
			},
		},
	}
	if chat.SystemInstruction != "" {
		req.SystemInstruction = &Content{Parts: []Part{{Text: chat.SystemInstruction}}}
	}
	if c.maxOutputTokens > 0 {
		req.GenerationConfig = &GenerationConfig{MaxOutputTokens: c.maxOutputTokens}
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("リクエストのシリアライズに失敗: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API呼び出しエラー (status: %d): %s", resp.StatusCode, string(body))
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("レスポンスのパースに失敗: %w", err)
	}
	if geminiResp.Error != nil {
		return "", fmt.Errorf("APIエラー (code: %d): %s", geminiResp.Error.Code, geminiResp.Error.Message)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
