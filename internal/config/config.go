package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/infrastructure/ai"
	"Sulam-App/internal/infrastructure/knowledge"
)

// 場所データの保存先
const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
)

// Config はサーバー全体の設定
type Config struct {
	Port string

	StoreBackend       string
	FirestoreProjectID string
	CredentialsFile    string
	SQLitePath         string

	Calibration model.GeoCalibration

	AIModels         []string
	OpenRouter       ai.OpenRouterConfig
	GeminiAPIKey     string
	GeminiBaseURL    string
	WikipediaURL     string
	KnowledgeTimeout time.Duration
	SummaryMaxChars  int

	RedisHost       string
	RedisPort       string
	RedisPass       string
	RedisDB         int
	SummaryCacheTTL time.Duration

	DatabaseURL        string
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseDBPassword string

	SessionIdleTTL time.Duration
}

// Load は .env と環境変数から設定を読み込む
// 校正値が縮退している場合などはエラーを返す
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ .env file not found, using system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv は getenv から設定を組み立てる
func FromEnv(getenv func(string) string) (*Config, error) {
	r := &envReader{getenv: getenv}

	cfg := &Config{
		Port:               r.str("PORT", "8080"),
		StoreBackend:       strings.ToLower(r.str("STORE_BACKEND", BackendFirestore)),
		FirestoreProjectID: r.str("FIRESTORE_PROJECT_ID", "sulam-project-map"),
		CredentialsFile:    r.str("GOOGLE_APPLICATION_CREDENTIALS", ""),
		SQLitePath:         r.str("SQLITE_PATH", "places.db"),
		Calibration: model.GeoCalibration{
			TopLeft: model.LatLng{
				Lat: r.float("MAP_TOP_LEFT_LAT", 2.9817734396960933),
				Lng: r.float("MAP_TOP_LEFT_LNG", 101.5108517014077),
			},
			BottomRight: model.LatLng{
				Lat: r.float("MAP_BOTTOM_RIGHT_LAT", 2.981656921540031),
				Lng: r.float("MAP_BOTTOM_RIGHT_LNG", 101.51112863952406),
			},
			Width:  r.float("MAP_IMAGE_WIDTH", 1530),
			Height: r.float("MAP_IMAGE_HEIGHT", 1050),
		},
		AIModels: ai.ParseModelList(r.str("AI_PROVIDERS", "")),
		OpenRouter: ai.OpenRouterConfig{
			APIKey:    r.str("OPENROUTER_API_KEY", ""),
			BaseURL:   r.str("OPENROUTER_BASE_URL", ai.DefaultOpenRouterURL),
			Referer:   r.str("OPENROUTER_REFERER", ""),
			Title:     r.str("OPENROUTER_TITLE", "KUL City Walk AI Assistant"),
			MaxTokens: r.int("AI_MAX_TOKENS", 150),
			Timeout:   r.duration("AI_PROVIDER_TIMEOUT", ai.DefaultTimeout),
		},
		GeminiAPIKey:     r.str("GEMINI_API_KEY", ""),
		GeminiBaseURL:    r.str("GEMINI_BASE_URL", ai.DefaultGeminiURL),
		WikipediaURL:     r.str("WIKIPEDIA_URL", knowledge.DefaultWikipediaURL),
		KnowledgeTimeout: r.duration("KNOWLEDGE_TIMEOUT", 10*time.Second),
		SummaryMaxChars:  r.int("SUMMARY_MAX_CHARS", 800),

		RedisHost:       r.str("REDIS_HOST", ""),
		RedisPort:       r.str("REDIS_PORT", "6379"),
		RedisPass:       r.str("REDIS_PASS", ""),
		RedisDB:         r.int("REDIS_DB", 0),
		SummaryCacheTTL: r.duration("SUMMARY_CACHE_TTL", 24*time.Hour),

		DatabaseURL:        r.str("DATABASE_URL", ""),
		SupabaseURL:        r.str("SUPABASE_URL", ""),
		SupabaseAnonKey:    r.str("SUPABASE_ANON_KEY", ""),
		SupabaseDBPassword: r.str("SUPABASE_DB_PASSWORD", ""),

		SessionIdleTTL: r.duration("SESSION_IDLE_TTL", 2*time.Hour),
	}

	if len(r.errs) > 0 {
		return nil, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(r.errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は値の組み合わせをチェックする
func (c *Config) Validate() error {
	if c.StoreBackend != BackendFirestore && c.StoreBackend != BackendSQLite {
		return fmt.Errorf("STORE_BACKEND は %s または %s を指定してください: %s", BackendFirestore, BackendSQLite, c.StoreBackend)
	}
	if _, err := helper.NewProjector(c.Calibration); err != nil {
		return fmt.Errorf("マップ校正値が不正です: %w", err)
	}
	if c.OpenRouter.MaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS は正の値である必要があります: %d", c.OpenRouter.MaxTokens)
	}
	if c.SummaryMaxChars <= 0 {
		return fmt.Errorf("SUMMARY_MAX_CHARS は正の値である必要があります: %d", c.SummaryMaxChars)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL は正の値である必要があります: %v", c.SessionIdleTTL)
	}
	return nil
}

// AuthEnabled はSupabaseログインが使えるか
func (c *Config) AuthEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

type envReader struct {
	getenv func(string) string
	errs   []string
}

func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) float(key string, def float64) float64 {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s=%q", key, v))
		return def
	}
	return f
}

func (r *envReader) int(key string, def int) int {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s=%q", key, v))
		return def
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s=%q", key, v))
		return def
	}
	return d
}
