package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/usecase"
)

// PlacesHandler はPOI・ゾーン閲覧APIのハンドラー
type PlacesHandler struct {
	exploreUseCase usecase.ExploreUseCase
}

// NewPlacesHandler は新しいPlacesHandlerインスタンスを作成
func NewPlacesHandler(exploreUseCase usecase.ExploreUseCase) *PlacesHandler {
	return &PlacesHandler{exploreUseCase: exploreUseCase}
}

// ListPlaces は場所一覧（タイトル検索・種別絞り込み）を返す
// GET /api/places?q=&kind=
func (h *PlacesHandler) ListPlaces(c *gin.Context) {
	kind := model.PlaceKind(c.Query("kind"))
	if kind != "" && kind != model.KindPOI && kind != model.KindZone {
		respondError(c, &ValidationError{Field: "kind", Message: "kindは'poi'または'zone'を指定してください"})
		return
	}

	places := h.exploreUseCase.ListPlaces(c.Request.Context(), c.Query("q"), kind)
	c.JSON(http.StatusOK, gin.H{
		"places": places,
		"count":  len(places),
	})
}

// GetPlace は1件の場所を返す
// GET /api/places/:id
func (h *PlacesHandler) GetPlace(c *gin.Context) {
	place, err := h.exploreUseCase.GetPlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

// Locate はGPS測位値をマップのピクセル座標に変換する
// POST /api/locate
func (h *PlacesHandler) Locate(c *gin.Context) {
	var req model.LocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}
	if err := validateLatLng(*req.Lat, *req.Lng); err != nil {
		respondError(c, err)
		return
	}

	point := h.exploreUseCase.Locate(c.Request.Context(), model.LatLng{Lat: *req.Lat, Lng: *req.Lng})
	c.JSON(http.StatusOK, point)
}

// MapInfo はマップ画像のサイズと校正値を返す
// GET /api/map
func (h *PlacesHandler) MapInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.exploreUseCase.MapInfo(c.Request.Context()))
}

// validateLatLng 緯度経度の範囲チェック
func validateLatLng(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return &ValidationError{Field: "lat", Message: "緯度は-90から90の範囲で指定してください"}
	}
	if lng < -180 || lng > 180 {
		return &ValidationError{Field: "lng", Message: "経度は-180から180の範囲で指定してください"}
	}
	return nil
}
