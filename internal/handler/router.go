package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers はルーターに登録するハンドラー群
type Handlers struct {
	Health  *HealthHandler
	Places  *PlacesHandler
	Session *SessionHandler
	Socket  *SessionSocketHandler
	Admin   *AdminHandler
	Auth    *AuthHandler
	// Metrics は /metrics に公開する（nil の場合は登録しない）
	Metrics http.Handler
}

// NewRouter はAPIルーターを構築する
func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health.Health)

		api.GET("/places", h.Places.ListPlaces)
		api.GET("/places/:id", h.Places.GetPlace)
		api.POST("/locate", h.Places.Locate)
		api.GET("/map", h.Places.MapInfo)

		sessions := api.Group("/sessions")
		sessions.POST("", h.Session.CreateSession)
		sessions.GET("/:id", h.Session.GetSession)
		sessions.POST("/:id/open", h.Session.OpenPlace)
		sessions.DELETE("/:id/selection", h.Session.Dismiss)
		sessions.POST("/:id/ask", h.Session.Ask)

		auth := api.Group("/auth")
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)

		admin := api.Group("/admin", h.Auth.RequireAdmin())
		admin.GET("/:kind", h.Admin.ListPlaces)
		admin.POST("/:kind", h.Admin.CreatePlace)
		admin.PUT("/:kind/:id", h.Admin.UpdatePlace)
		admin.DELETE("/:kind/:id", h.Admin.DeletePlace)
	}

	r.GET("/ws/sessions/:id", h.Socket.Serve)

	return r
}
