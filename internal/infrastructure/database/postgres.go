package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
)

// PostgreSQLClient PostgreSQL直接接続クライアント
// AIプロバイダ試行ログの保存に使う
type PostgreSQLClient struct {
	DB *sql.DB
}

// PostgresDSN は接続文字列を決める
// databaseURL があればそれを使い、なければSupabaseのURLとDBパスワードから組み立てる。どちらもなければ空
func PostgresDSN(databaseURL, supabaseURL, supabasePassword string) (string, error) {
	if databaseURL != "" {
		return databaseURL, nil
	}
	if supabaseURL == "" || supabasePassword == "" {
		return "", nil
	}

	// SupabaseのURLからホスト名を抽出 (https://xxx.supabase.co -> xxx.supabase.co)
	u, err := url.Parse(supabaseURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("SUPABASE_URLの形式が正しくありません: %s", supabaseURL)
	}
	host := strings.TrimPrefix(u.Host, "db.")

	// SupabaseのPostgreSQL接続文字列を構築（ポート6543を使用）
	return fmt.Sprintf(
		"host=db.%s port=6543 user=postgres password=%s dbname=postgres sslmode=require",
		host, supabasePassword,
	), nil
}

// NewPostgreSQLClient 新しいPostgreSQLクライアントを作成し、試行ログのテーブルを用意する
func NewPostgreSQLClient(dsn string) (*PostgreSQLClient, error) {
	if dsn == "" {
		return nil, fmt.Errorf("PostgreSQLの接続文字列が設定されていません")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}

	// 接続テスト
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("PostgreSQLへの接続に失敗: %w", err)
	}

	const createTable = `
CREATE TABLE IF NOT EXISTS ai_provider_attempts (
  id UUID PRIMARY KEY,
  session_id TEXT NOT NULL DEFAULT '',
  place_id TEXT NOT NULL DEFAULT '',
  provider TEXT NOT NULL,
  outcome TEXT NOT NULL,
  error TEXT NOT NULL DEFAULT '',
  duration_ms BIGINT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("試行ログテーブルの作成に失敗: %w", err)
	}

	return &PostgreSQLClient{
		DB: db,
	}, nil
}

// Close データベース接続を閉じる
func (pc *PostgreSQLClient) Close() error {
	if pc.DB != nil {
		return pc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (pc *PostgreSQLClient) HealthCheck() error {
	if pc.DB == nil {
		return fmt.Errorf("PostgreSQLクライアントが初期化されていません")
	}
	return pc.DB.Ping()
}
