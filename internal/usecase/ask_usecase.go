package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
	"Sulam-App/internal/domain/service"
	"Sulam-App/internal/infrastructure/metrics"
)

type AskUseCase interface {
	// Ask は選択中の場所についての質問にAIで回答する
	// 回答前に同じセッションで新しい質問・選択・解除があった場合は Superseded を返す
	Ask(ctx context.Context, sessionID, question string) (*model.AskResponse, error)
}

// askUseCaseImpl はAskUseCaseの実装
type askUseCaseImpl struct {
	sessions         *service.SessionStore
	catalog          *service.Catalog
	knowledge        repository.KnowledgeRepository
	answers          service.AnswerService
	knowledgeTimeout time.Duration
	summaryMaxChars  int
}

// NewAskUseCase は新しいAskUseCaseインスタンスを作成
func NewAskUseCase(
	sessions *service.SessionStore,
	catalog *service.Catalog,
	knowledge repository.KnowledgeRepository,
	answers service.AnswerService,
	knowledgeTimeout time.Duration,
	summaryMaxChars int,
) AskUseCase {
	return &askUseCaseImpl{
		sessions:         sessions,
		catalog:          catalog,
		knowledge:        knowledge,
		answers:          answers,
		knowledgeTimeout: knowledgeTimeout,
		summaryMaxChars:  summaryMaxChars,
	}
}

// Ask は外部要約を取得してからAIチェーンに質問する
func (u *askUseCaseImpl) Ask(ctx context.Context, sessionID, question string) (*model.AskResponse, error) {
	s, err := u.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	askCtx, generation, selection, done := s.BeginAsk(ctx)
	defer done()

	if selection == nil {
		metrics.AnswersTotal.WithLabelValues("no_selection").Inc()
		return &model.AskResponse{Answer: model.NoSelectionAnswer}, nil
	}

	// 選択後にカタログが更新されていれば最新の内容を使う
	place := selection
	if current, ok := u.catalog.Get(selection.ID); ok {
		place = current
	}

	log.Printf("🤖 質問受付 (session=%s, place=%s)", sessionID, place.Title)
	summary := helper.LabelSummary(u.lookupSummary(askCtx, place.Title))

	answer := u.answers.Answer(askCtx, service.AnswerInput{
		SessionID:       sessionID,
		Question:        question,
		Place:           place,
		ExternalSummary: summary,
	})

	if !s.IsCurrent(generation) {
		metrics.AnswersTotal.WithLabelValues("superseded").Inc()
		log.Printf("⚠️ より新しい操作があったため回答を破棄 (session=%s)", sessionID)
		return &model.AskResponse{Superseded: true}, nil
	}

	if answer == model.UnavailableAnswer {
		metrics.AnswersTotal.WithLabelValues("unavailable").Inc()
	} else {
		metrics.AnswersTotal.WithLabelValues("answered").Inc()
	}
	return &model.AskResponse{Answer: answer}, nil
}

// lookupSummary は外部要約を取得する。失敗しても空文字列で続行する
func (u *askUseCaseImpl) lookupSummary(ctx context.Context, title string) string {
	if u.knowledge == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, u.knowledgeTimeout)
	defer cancel()

	summary, err := u.knowledge.Summary(ctx, title)
	if err != nil {
		log.Printf("⚠️ 外部要約の取得に失敗（なしで続行）: %v", err)
		return ""
	}
	return helper.TruncateRunes(strings.TrimSpace(summary), u.summaryMaxChars)
}
