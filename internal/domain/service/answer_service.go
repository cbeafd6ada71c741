package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
)

// AnswerInput は1回の質問に必要な情報
type AnswerInput struct {
	SessionID       string
	Question        string
	Place           *model.Place
	ExternalSummary string
}

// AnswerService はチャット補完プロバイダを順番に試して回答を得る
type AnswerService interface {
	// Answer は常に文字列を返す。全プロバイダが失敗した場合は固定メッセージ
	Answer(ctx context.Context, in AnswerInput) string
}

// answerServiceImpl はAnswerServiceの実装
type answerServiceImpl struct {
	providers []repository.ChatProvider
	recorder  repository.AttemptRecorder
	now       func() time.Time
}

// NewAnswerService は新しいAnswerServiceを作成
// providers の順序がそのまま試行順になる
func NewAnswerService(providers []repository.ChatProvider, recorder repository.AttemptRecorder) AnswerService {
	return &answerServiceImpl{
		providers: providers,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Answer はプロバイダを1つずつ試し、最初の空でない回答を返す
// 失敗したプロバイダは再試行しない。コンテキストが取り消されたら残りは試さない
func (s *answerServiceImpl) Answer(ctx context.Context, in AnswerInput) string {
	req := model.ChatRequest{
		SystemInstruction: model.SystemInstruction,
		UserPrompt:        helper.BuildUserPrompt(in.Place, in.ExternalSummary, in.Question),
	}

	for _, p := range s.providers {
		if ctx.Err() != nil {
			log.Printf("⚠️ 質問が取り消されたためプロバイダ試行を中断: %v", ctx.Err())
			break
		}

		started := s.now()
		text, err := p.Complete(ctx, req)
		answer := strings.TrimSpace(text)

		attempt := &model.ProviderAttempt{
			ID:        uuid.New().String(),
			SessionID: in.SessionID,
			PlaceID:   in.Place.ID,
			Provider:  p.Name(),
			Duration:  s.now().Sub(started),
			CreatedAt: started,
		}
		switch {
		case err != nil:
			attempt.Outcome = model.OutcomeTransportError
			attempt.Error = err.Error()
		case answer == "":
			attempt.Outcome = model.OutcomeEmpty
		default:
			attempt.Outcome = model.OutcomeAnswered
		}
		s.record(ctx, attempt)

		if attempt.Outcome == model.OutcomeAnswered {
			log.Printf("🤖 %s が回答しました (%v)", p.Name(), attempt.Duration)
			return answer
		}
		log.Printf("⚠️ %s 失敗 (%s): %s", p.Name(), attempt.Outcome, attempt.Error)
	}

	log.Printf("❌ 全てのAIプロバイダが失敗しました")
	return model.UnavailableAnswer
}

func (s *answerServiceImpl) record(ctx context.Context, attempt *model.ProviderAttempt) {
	if s.recorder == nil {
		return
	}
	// 取り消し済みの質問でも試行記録は残す
	s.recorder.Record(context.WithoutCancel(ctx), attempt)
}
