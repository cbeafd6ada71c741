package model

import "time"

// SessionView は閲覧セッションの状態
type SessionView struct {
	SessionID  string     `json:"session_id"`
	Selection  *PlaceView `json:"selection"`
	Generation uint64     `json:"generation"`
	CreatedAt  time.Time  `json:"created_at"`
}

// OpenPlaceRequest は場所を開くリクエスト
type OpenPlaceRequest struct {
	PlaceID string `json:"place_id" binding:"required"`
}

// OpenPlaceResponse は開いた場所と近隣のおすすめ
type OpenPlaceResponse struct {
	Place           PlaceView   `json:"place"`
	Recommendations []PlaceView `json:"recommendations"`
}

// AskRequest はAIへの質問
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse はAIの回答
// Superseded が true の場合、より新しい質問が開始されたため回答は破棄された
type AskResponse struct {
	Answer     string `json:"answer,omitempty"`
	Superseded bool   `json:"superseded"`
}
