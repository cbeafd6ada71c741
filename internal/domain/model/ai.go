package model

import "time"

// ChatRequest はチャット補完プロバイダへの入力
type ChatRequest struct {
	SystemInstruction string
	UserPrompt        string
}

// AttemptOutcome はプロバイダ試行の結果種別
type AttemptOutcome string

const (
	OutcomeAnswered       AttemptOutcome = "answered"
	OutcomeTransportError AttemptOutcome = "error"
	OutcomeEmpty          AttemptOutcome = "empty"
)

// ProviderAttempt は1プロバイダへの1回の試行記録（診断用）
type ProviderAttempt struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id,omitempty"`
	PlaceID   string         `json:"place_id"`
	Provider  string         `json:"provider"`
	Outcome   AttemptOutcome `json:"outcome"`
	Error     string         `json:"error,omitempty"`
	Duration  time.Duration  `json:"duration"`
	CreatedAt time.Time      `json:"created_at"`
}
