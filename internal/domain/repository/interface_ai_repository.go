package repository

import (
	"context"

	"Sulam-App/internal/domain/model"
)

// ChatProvider はチャット補完バックエンド1つを表す
// 全てのプロバイダはこの形で交換可能に扱われる
type ChatProvider interface {
	Name() string
	Complete(ctx context.Context, req model.ChatRequest) (string, error)
}

// KnowledgeRepository は場所名から外部の短い要約を取得する
// 見つからない場合は空文字列を返す
type KnowledgeRepository interface {
	Summary(ctx context.Context, title string) (string, error)
}

// AttemptRecorder はプロバイダ試行を診断用に記録する
type AttemptRecorder interface {
	Record(ctx context.Context, attempt *model.ProviderAttempt)
}

// AttemptStats は記録済みの試行件数をプロバイダ・結果ごとに集計する
type AttemptStats interface {
	CountByOutcome(ctx context.Context) (map[string]map[model.AttemptOutcome]int, error)
}

// Authenticator は管理画面のログインゲート
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*model.AuthSession, error)
	Verify(ctx context.Context, accessToken string) (*model.AdminUser, error)
	SignOut(ctx context.Context, accessToken string) error
}
