package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
)

// PostgresAttemptLogRepository AIプロバイダ試行ログをPostgreSQLに保存する
type PostgresAttemptLogRepository struct {
	db *sql.DB
}

var _ repository.AttemptStats = (*PostgresAttemptLogRepository)(nil)

// NewPostgresAttemptLogRepository 新しいPostgresAttemptLogRepositoryインスタンスを作成
func NewPostgresAttemptLogRepository(db *sql.DB) *PostgresAttemptLogRepository {
	return &PostgresAttemptLogRepository{db: db}
}

// Save は試行を1件保存する
func (r *PostgresAttemptLogRepository) Save(ctx context.Context, a *model.ProviderAttempt) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO ai_provider_attempts (id, session_id, place_id, provider, outcome, error, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.SessionID, a.PlaceID, a.Provider, string(a.Outcome), a.Error, a.Duration.Milliseconds(), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("試行ログの保存に失敗: %w", err)
	}
	return nil
}

// CountByOutcome はプロバイダごと・結果ごとの試行件数を返す
func (r *PostgresAttemptLogRepository) CountByOutcome(ctx context.Context) (map[string]map[model.AttemptOutcome]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT provider, outcome, COUNT(*) FROM ai_provider_attempts GROUP BY provider, outcome`)
	if err != nil {
		return nil, fmt.Errorf("試行ログの集計に失敗: %w", err)
	}
	defer rows.Close()

	result := map[string]map[model.AttemptOutcome]int{}
	for rows.Next() {
		var provider, outcome string
		var n int
		if err := rows.Scan(&provider, &outcome, &n); err != nil {
			return nil, fmt.Errorf("試行ログの読み取りに失敗: %w", err)
		}
		if result[provider] == nil {
			result[provider] = map[model.AttemptOutcome]int{}
		}
		result[provider][model.AttemptOutcome(outcome)] = n
	}
	if err := rows.Err(); err != nil {
		log.Printf("⚠️ 試行ログの集計中にエラー: %v", err)
		return nil, err
	}
	return result, nil
}
