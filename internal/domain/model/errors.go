package model

import "errors"

var (
	// ErrPlaceNotFound は指定IDの場所が存在しない
	ErrPlaceNotFound = errors.New("place not found")

	// ErrInvalidPlace は保存できない場所データ
	ErrInvalidPlace = errors.New("invalid place")

	// ErrSessionNotFound は閲覧セッションが存在しない
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnauthorized は管理者認証に失敗
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAuthUnavailable は認証基盤が未設定
	ErrAuthUnavailable = errors.New("auth backend not configured")
)
