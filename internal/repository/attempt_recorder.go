package repository

import (
	"context"
	"log"
	"time"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
	"Sulam-App/internal/infrastructure/metrics"
)

// attemptStore は試行ログの保存先
type attemptStore interface {
	Save(ctx context.Context, a *model.ProviderAttempt) error
}

// AttemptRecorder はプロバイダ試行をメトリクスと（設定されていれば）PostgreSQLに記録する
type AttemptRecorder struct {
	store   attemptStore
	timeout time.Duration
}

var _ repository.AttemptRecorder = (*AttemptRecorder)(nil)

// NewAttemptRecorder は新しいAttemptRecorderを作成。store はnil可
func NewAttemptRecorder(store attemptStore) *AttemptRecorder {
	return &AttemptRecorder{store: store, timeout: 3 * time.Second}
}

// Record は試行を記録する。保存の失敗は回答に影響させない
func (r *AttemptRecorder) Record(ctx context.Context, a *model.ProviderAttempt) {
	metrics.ProviderAttemptsTotal.WithLabelValues(a.Provider, string(a.Outcome)).Inc()
	metrics.ProviderDurationMs.WithLabelValues(a.Provider).Observe(float64(a.Duration.Milliseconds()))

	if r.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.store.Save(ctx, a); err != nil {
		log.Printf("⚠️ 試行ログの保存に失敗: %v", err)
	}
}
