package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/service"
	"Sulam-App/internal/usecase"
)

const (
	// クライアントへの書き込み許容時間
	writeWait = 10 * time.Second

	// 次のpongを待つ時間
	pongWait = 60 * time.Second

	// pingの送信間隔。pongWaitより短くすること
	pingPeriod = 15 * time.Second

	// クライアントから受け付ける最大メッセージサイズ
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamEvent はWebSocketでクライアントへ送るイベント
type StreamEvent struct {
	Type    string   `json:"type"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	Version *uint64  `json:"version,omitempty"`
	Message string   `json:"message,omitempty"`
}

// SessionSocketHandler は現在地の連続投影とカタログ更新通知を配信する
type SessionSocketHandler struct {
	exploreUseCase usecase.ExploreUseCase
	catalog        *service.Catalog
}

// NewSessionSocketHandler は新しいSessionSocketHandlerインスタンスを作成
func NewSessionSocketHandler(exploreUseCase usecase.ExploreUseCase, catalog *service.Catalog) *SessionSocketHandler {
	return &SessionSocketHandler{
		exploreUseCase: exploreUseCase,
		catalog:        catalog,
	}
}

// Serve はセッションのWebSocketを開く
// GET /ws/sessions/:id
func (h *SessionSocketHandler) Serve(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := h.exploreUseCase.GetSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocketアップグレード失敗: %v", err)
		return
	}

	updates, unsubscribe := h.catalog.Subscribe()
	defer unsubscribe()

	s := &locateStream{
		ctx:       c.Request.Context(),
		conn:      conn,
		sessionID: sessionID,
		explore:   h.exploreUseCase,
		updates:   updates,
		outbound:  make(chan StreamEvent, 8),
	}
	log.Printf("🔌 WebSocket接続: session=%s", sessionID)
	s.run(h.catalog.Version())
	log.Printf("🔌 WebSocket切断: session=%s", sessionID)
}

type locateStream struct {
	ctx       context.Context
	conn      *websocket.Conn
	sessionID string
	explore   usecase.ExploreUseCase
	// カタログの新しいバージョン
	updates <-chan uint64
	// 読み取りループから書き込みループへのイベント
	outbound chan StreamEvent
}

func (s *locateStream) run(version uint64) {
	defer s.conn.Close()

	stopCtx, cancel := context.WithCancel(context.Background())

	wg := sync.WaitGroup{}
	wg.Add(2)

	s.outbound <- catalogEvent(version)

	go s.bufToClientLoop(cancel, &wg, stopCtx)
	go s.clientToServerLoop(cancel, &wg, stopCtx)
	wg.Wait()
}

// clientToServerLoop はGPS測位値 {lat,lng} を読み取り、ピクセル座標に変換して送り返す
func (s *locateStream) clientToServerLoop(cancel context.CancelFunc, wg *sync.WaitGroup, stopCtx context.Context) {
	defer func() {
		cancel()
		wg.Done()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error { s.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		select {
		case <-stopCtx.Done():
			return
		default:
		}

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ WebSocket読み取りエラー: %v", err)
			}
			return
		}

		event := s.locate(msg)
		select {
		case s.outbound <- event:
		case <-stopCtx.Done():
			return
		}
	}
}

func (s *locateStream) locate(msg []byte) StreamEvent {
	var req model.LocateRequest
	if err := json.Unmarshal(msg, &req); err != nil || req.Lat == nil || req.Lng == nil {
		return StreamEvent{Type: "error", Message: "lat と lng を含むJSONを送信してください"}
	}
	if err := validateLatLng(*req.Lat, *req.Lng); err != nil {
		return StreamEvent{Type: "error", Message: err.Error()}
	}
	p, err := s.explore.TrackLocation(s.ctx, s.sessionID, model.LatLng{Lat: *req.Lat, Lng: *req.Lng})
	if err != nil {
		return StreamEvent{Type: "error", Message: err.Error()}
	}
	return StreamEvent{Type: "position", X: &p.X, Y: &p.Y}
}

// bufToClientLoop は唯一の書き込み手。ping・投影結果・カタログ更新を送る
func (s *locateStream) bufToClientLoop(cancel context.CancelFunc, wg *sync.WaitGroup, stopCtx context.Context) {
	defer func() {
		s.conn.Close()
		cancel()
		wg.Done()
	}()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stopCtx.Done():
			return
		case <-s.ctx.Done():
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case version := <-s.updates:
			if err := s.write(catalogEvent(version)); err != nil {
				return
			}
		case event := <-s.outbound:
			if err := s.write(event); err != nil {
				return
			}
		}
	}
}

func catalogEvent(version uint64) StreamEvent {
	return StreamEvent{Type: "catalog", Version: &version}
}

func (s *locateStream) write(event StreamEvent) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	w, err := s.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	b, _ := json.Marshal(event)
	if _, err := w.Write(b); err != nil {
		return err
	}
	return w.Close()
}
