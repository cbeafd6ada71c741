package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
	"Sulam-App/internal/domain/service"
)

// HealthHandler はヘルスチェックハンドラー
type HealthHandler struct {
	catalog   *service.Catalog
	sessions  *service.SessionStore
	providers int
	// attempts は試行ログの集計元（PostgreSQL未設定ならnil）
	attempts repository.AttemptStats
}

// NewHealthHandler は新しいHealthHandlerインスタンスを作成
func NewHealthHandler(catalog *service.Catalog, sessions *service.SessionStore, providers int, attempts repository.AttemptStats) *HealthHandler {
	return &HealthHandler{
		catalog:   catalog,
		sessions:  sessions,
		providers: providers,
		attempts:  attempts,
	}
}

// Health はサービスの状態を返す
// GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	all := h.catalog.All()
	unplaced := 0
	for _, p := range all {
		if !p.HasPosition() {
			unplaced++
		}
	}

	body := gin.H{
		"status":          "healthy",
		"service":         "Sulam-App",
		"pois":            len(h.catalog.ByKind(model.KindPOI)),
		"zones":           len(h.catalog.ByKind(model.KindZone)),
		"unplaced":        unplaced,
		"catalog_version": h.catalog.Version(),
		"sessions":        h.sessions.Len(),
		"ai_providers":    h.providers,
	}
	if h.attempts != nil {
		counts, err := h.attempts.CountByOutcome(c.Request.Context())
		if err != nil {
			log.Printf("⚠️ 試行ログの集計に失敗: %v", err)
		} else {
			body["provider_attempts"] = counts
		}
	}
	c.JSON(http.StatusOK, body)
}
