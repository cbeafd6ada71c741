package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/usecase"
)

// SessionHandler は閲覧セッション（場所の選択・AI質問）APIのハンドラー
type SessionHandler struct {
	exploreUseCase usecase.ExploreUseCase
	askUseCase     usecase.AskUseCase
}

// NewSessionHandler は新しいSessionHandlerインスタンスを作成
func NewSessionHandler(exploreUseCase usecase.ExploreUseCase, askUseCase usecase.AskUseCase) *SessionHandler {
	return &SessionHandler{
		exploreUseCase: exploreUseCase,
		askUseCase:     askUseCase,
	}
}

// CreateSession はセッションを作成する
// POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.exploreUseCase.CreateSession(c.Request.Context()))
}

// GetSession はセッションの状態を返す
// GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.exploreUseCase.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// OpenPlace は場所を開き、近隣のおすすめを返す
// POST /api/sessions/:id/open
func (h *SessionHandler) OpenPlace(c *gin.Context) {
	var req model.OpenPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	res, err := h.exploreUseCase.OpenPlace(c.Request.Context(), c.Param("id"), req.PlaceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Dismiss は開いている場所を閉じる
// DELETE /api/sessions/:id/selection
func (h *SessionHandler) Dismiss(c *gin.Context) {
	view, err := h.exploreUseCase.Dismiss(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Ask は選択中の場所についてAIに質問する
// POST /api/sessions/:id/ask
func (h *SessionHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(c, &ValidationError{Field: "question", Message: "質問は必須です"})
		return
	}

	res, err := h.askUseCase.Ask(c.Request.Context(), c.Param("id"), req.Question)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
