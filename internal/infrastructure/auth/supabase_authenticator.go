package auth

import (
	"context"
	"fmt"
	"log"
	"strings"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
	"Sulam-App/internal/infrastructure/database"
)

// SupabaseAuthenticator はSupabase Auth（GoTrue）を使った管理者ログイン
type SupabaseAuthenticator struct {
	supabase *database.SupabaseClient
}

var _ repository.Authenticator = (*SupabaseAuthenticator)(nil)

// NewSupabaseAuthenticator は新しいSupabaseAuthenticatorを作成
func NewSupabaseAuthenticator(client *database.SupabaseClient) *SupabaseAuthenticator {
	return &SupabaseAuthenticator{supabase: client}
}

// SignIn はメールアドレスとパスワードでログインする
// 共有クライアントのトークンは書き換えず、発行されたトークンだけを返す
func (a *SupabaseAuthenticator) SignIn(ctx context.Context, email, password string) (*model.AuthSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	token, err := a.supabase.Client.Auth.SignInWithEmailPassword(strings.TrimSpace(email), password)
	if err != nil {
		log.Printf("⚠️ ログイン失敗: %s", email)
		return nil, fmt.Errorf("ログインに失敗: %v: %w", err, model.ErrUnauthorized)
	}
	log.Printf("✅ 管理者ログイン: %s", token.User.Email)
	return &model.AuthSession{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
		Email:        token.User.Email,
	}, nil
}

// Verify はアクセストークンを検証し、管理者情報を返す
func (a *SupabaseAuthenticator) Verify(ctx context.Context, accessToken string) (*model.AdminUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, fmt.Errorf("トークンがありません: %w", model.ErrUnauthorized)
	}
	user, err := a.supabase.Client.Auth.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, fmt.Errorf("トークンの検証に失敗: %v: %w", err, model.ErrUnauthorized)
	}
	return &model.AdminUser{ID: user.ID.String(), Email: user.Email}, nil
}

// SignOut はトークンに紐づくリフレッシュトークンを失効させる
func (a *SupabaseAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.supabase.Client.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("ログアウトに失敗: %w", err)
	}
	return nil
}
