package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/model"
)

// Session は1つの閲覧セッション（ブラウザタブ）の状態
// 開いている場所は高々1つ。世代番号は質問・選択・解除のたびに進み、古い質問の回答を破棄するために使う
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	selection  *model.Place
	generation uint64
	cancelAsk  context.CancelFunc
	lastSeen   time.Time
}

// Open は場所を選択状態にする。進行中の質問は取り消される
func (s *Session) Open(place *model.Place) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = place
	return s.bumpLocked()
}

// Dismiss は選択を解除する。進行中の質問は取り消される
func (s *Session) Dismiss() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
	return s.bumpLocked()
}

// Selection は現在選択中の場所を返す（未選択ならnil）
func (s *Session) Selection() *model.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Generation は現在の世代番号
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// BeginAsk は新しい質問を開始する
// 前の質問のコンテキストを取り消し、この質問用のコンテキスト・世代番号・その時点の選択を返す
// 呼び出し側は終了時に必ず done を呼ぶこと
func (s *Session) BeginAsk(parent context.Context) (ctx context.Context, generation uint64, selection *model.Place, done func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	generation = s.bumpLocked()
	ctx, cancel := context.WithCancel(parent)
	s.cancelAsk = cancel
	selection = s.selection

	done = func() {
		s.mu.Lock()
		if s.generation == generation {
			s.cancelAsk = nil
		}
		s.mu.Unlock()
		cancel()
	}
	return ctx, generation, selection, done
}

// IsCurrent は世代番号が最新かチェック
func (s *Session) IsCurrent(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == generation
}

// View はAPIレスポンス用の表現を返す
// lookup があれば選択中の場所をIDで引き直し、カタログの最新の内容で表示する
// カタログから消えた場所は選択時の内容のまま表示する
func (s *Session) View(lookup func(id string) (*model.Place, bool)) model.SessionView {
	s.mu.Lock()
	selection := s.selection
	view := model.SessionView{
		SessionID:  s.ID,
		Generation: s.generation,
		CreatedAt:  s.CreatedAt,
	}
	s.mu.Unlock()

	if selection == nil {
		return view
	}
	if lookup != nil {
		if current, ok := lookup(selection.ID); ok {
			selection = current
		}
	}
	v := helper.ToPlaceView(selection)
	view.Selection = &v
	return view
}

func (s *Session) bumpLocked() uint64 {
	if s.cancelAsk != nil {
		s.cancelAsk()
		s.cancelAsk = nil
	}
	s.generation++
	return s.generation
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionStore は閲覧セッションを保持する
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore は新しいSessionStoreを作成
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: map[string]*Session{},
		now:      time.Now,
	}
}

// Create は新しいセッションを作成
func (st *SessionStore) Create() *Session {
	now := st.now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		lastSeen:  now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get はIDでセッションを取得し、最終アクセス時刻を更新する
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("セッションが見つかりません: %s: %w", id, model.ErrSessionNotFound)
	}
	s.touch(st.now())
	return s, nil
}

// Prune は idle 以上アクセスのないセッションを削除し、削除件数を返す
func (st *SessionStore) Prune(idle time.Duration) int {
	cutoff := st.now().Add(-idle)
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			s.Dismiss()
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("🧹 アイドルセッションを削除: %d件 (残り%d件)", removed, len(st.sessions))
	}
	return removed
}

// Len はセッション数
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
