package ai

import (
	"fmt"
	"log"
	"strings"
	"time"

	"Sulam-App/internal/domain/repository"
)

// GeminiPrefix が付いたエントリはGeminiのモデルとして扱う
const GeminiPrefix = "gemini:"

// DefaultTimeout は1プロバイダあたりのリクエスト上限
const DefaultTimeout = 30 * time.Second

// DefaultModels はOpenRouterの無料モデル（先頭から順に試す）
var DefaultModels = []string{
	"mistralai/devstral-2512:free",
	"nvidia/nemotron-3-nano-30b-a3b:free",
	"xiaomi/mimo-v2-flash:free",
	"z-ai/glm-4.5-air:free",
}

// ProviderSettings はプロバイダチェーンの構築に必要な設定
type ProviderSettings struct {
	Models     []string
	OpenRouter OpenRouterConfig
	GeminiKey  string
	GeminiURL  string
}

// BuildProviders は設定順にプロバイダのリストを作る
// APIキーがないプロバイダは警告を出して飛ばす
func BuildProviders(s ProviderSettings) ([]repository.ChatProvider, error) {
	models := s.Models
	if len(models) == 0 {
		models = DefaultModels
	}

	var providers []repository.ChatProvider
	orClient := NewOpenRouterClient(s.OpenRouter)
	for _, entry := range models {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if name, ok := strings.CutPrefix(entry, GeminiPrefix); ok {
			if name == "" {
				return nil, fmt.Errorf("Geminiのモデル名が空です: %q", entry)
			}
			if s.GeminiKey == "" {
				log.Printf("⚠️ GEMINI_API_KEY未設定のため %s をスキップ", entry)
				continue
			}
			providers = append(providers, NewGeminiClient(s.GeminiKey, s.GeminiURL, name, s.OpenRouter.MaxTokens, s.OpenRouter.Timeout))
			continue
		}
		if s.OpenRouter.APIKey == "" {
			log.Printf("⚠️ OPENROUTER_API_KEY未設定のため %s をスキップ", entry)
			continue
		}
		providers = append(providers, NewOpenRouterProvider(orClient, entry, s.OpenRouter.MaxTokens))
	}

	if len(providers) == 0 {
		log.Printf("⚠️ 利用可能なAIプロバイダがありません。質問には常に固定メッセージを返します")
	} else {
		log.Printf("🤖 AIプロバイダ %d件: %s", len(providers), providerNames(providers))
	}
	return providers, nil
}

// ParseModelList はカンマ区切りのモデル一覧を分割する
func ParseModelList(raw string) []string {
	var out []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

func providerNames(providers []repository.ChatProvider) string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	return strings.Join(names, ", ")
}
