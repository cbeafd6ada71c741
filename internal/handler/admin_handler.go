package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Sulam-App/internal/application"
	"Sulam-App/internal/domain/model"
)

// AdminHandler は管理画面のPOI・ゾーンCRUDハンドラー
type AdminHandler struct {
	adminService application.AdminService
}

// NewAdminHandler は新しいAdminHandlerインスタンスを作成
func NewAdminHandler(adminService application.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListPlaces は種別ごとの一覧を返す
// GET /api/admin/:kind
func (h *AdminHandler) ListPlaces(c *gin.Context) {
	kind, ok := bindKind(c)
	if !ok {
		return
	}
	places, err := h.adminService.ListPlaces(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"places": places,
		"count":  len(places),
	})
}

// CreatePlace は新しい場所を作成する
// POST /api/admin/:kind
func (h *AdminHandler) CreatePlace(c *gin.Context) {
	kind, ok := bindKind(c)
	if !ok {
		return
	}
	req, ok := bindPlaceInput(c)
	if !ok {
		return
	}
	res, err := h.adminService.CreatePlace(c.Request.Context(), kind, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// UpdatePlace は既存の場所を更新する
// PUT /api/admin/:kind/:id
func (h *AdminHandler) UpdatePlace(c *gin.Context) {
	kind, ok := bindKind(c)
	if !ok {
		return
	}
	req, ok := bindPlaceInput(c)
	if !ok {
		return
	}
	if err := h.adminService.UpdatePlace(c.Request.Context(), kind, c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

// DeletePlace は場所を削除する
// DELETE /api/admin/:kind/:id
func (h *AdminHandler) DeletePlace(c *gin.Context) {
	kind, ok := bindKind(c)
	if !ok {
		return
	}
	if err := h.adminService.DeletePlace(c.Request.Context(), kind, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindKind はパスの :kind を検証する（pois/zones の複数形も受け付ける）
func bindKind(c *gin.Context) (model.PlaceKind, bool) {
	switch c.Param("kind") {
	case "poi", "pois":
		return model.KindPOI, true
	case "zone", "zones":
		return model.KindZone, true
	}
	respondError(c, &ValidationError{Field: "kind", Message: "kindは'poi'または'zone'を指定してください"})
	return "", false
}

func bindPlaceInput(c *gin.Context) (*model.PlaceInput, bool) {
	var req model.PlaceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return nil, false
	}
	return &req, true
}
