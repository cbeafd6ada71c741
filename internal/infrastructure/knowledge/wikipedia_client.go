package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/repository"
)

// DefaultWikipediaURL はWikipedia REST APIの要約エンドポイント（末尾にタイトルを付ける）
const DefaultWikipediaURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"

// WikipediaClient は場所名からWikipediaの要約を取得するクライアント
type WikipediaClient struct {
	baseURL    string
	maxChars   int
	httpClient *http.Client
}

var _ repository.KnowledgeRepository = (*WikipediaClient)(nil)

// NewWikipediaClient は新しいWikipediaClientインスタンスを作成
func NewWikipediaClient(baseURL string, timeout time.Duration, maxChars int) *WikipediaClient {
	if baseURL == "" {
		baseURL = DefaultWikipediaURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &WikipediaClient{
		baseURL:  baseURL,
		maxChars: maxChars,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// wikipediaSummary はREST APIレスポンスのうち必要な部分
type wikipediaSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// Summary はタイトルに一致する記事の要約を返す
// 記事が存在しない場合は空文字列とnil
func (c *WikipediaClient) Summary(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+url.PathEscape(title), nil)
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Wikipediaへのリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("Wikipedia API呼び出しエラー (status: %d): %s", resp.StatusCode, string(body))
	}

	var summary wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return "", fmt.Errorf("レスポンスのパースに失敗: %w", err)
	}

	return helper.TruncateRunes(strings.TrimSpace(summary.Extract), c.maxChars), nil
}
