package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient ローカル開発用のSQLite接続
// Firestoreを使わない場合の場所データ保存先
type SQLiteClient struct {
	DB *sql.DB
}

// NewSQLiteClient SQLiteファイルを開いてスキーマを作成する
func NewSQLiteClient(path string) (*SQLiteClient, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLiteのパスが設定されていません")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("SQLite接続の初期化に失敗: %w", err)
	}
	// 書き込みは単一接続に直列化する
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{`PRAGMA journal_mode=WAL;`, `PRAGMA foreign_keys=ON;`} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("SQLiteの設定に失敗: %w", err)
		}
	}

	client := &SQLiteClient{DB: db}
	if err := client.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Printf("✅ SQLite opened: %s", path)
	return client, nil
}

func (c *SQLiteClient) ensureSchema() error {
	const createTable = `
CREATE TABLE IF NOT EXISTS places (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  kind TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  img TEXT NOT NULL DEFAULT '',
  coords_json TEXT,
  boundary_json TEXT
);
`
	if _, err := c.DB.Exec(createTable); err != nil {
		return fmt.Errorf("placesテーブルの作成に失敗: %w", err)
	}
	if _, err := c.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_places_kind ON places(kind);`); err != nil {
		return fmt.Errorf("インデックスの作成に失敗: %w", err)
	}
	return nil
}

// Close データベース接続を閉じる
func (c *SQLiteClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (c *SQLiteClient) HealthCheck() error {
	if c.DB == nil {
		return fmt.Errorf("SQLiteクライアントが初期化されていません")
	}
	return c.DB.Ping()
}
