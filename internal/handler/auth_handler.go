package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
)

const adminUserKey = "admin_user"

// AuthHandler は管理者ログインのハンドラー
// authenticator が nil の場合、ログインと管理APIは 503 を返す
type AuthHandler struct {
	authenticator repository.Authenticator
}

// NewAuthHandler は新しいAuthHandlerインスタンスを作成
func NewAuthHandler(authenticator repository.Authenticator) *AuthHandler {
	return &AuthHandler{authenticator: authenticator}
}

// Login はメールアドレスとパスワードでログインする
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	if h.authenticator == nil {
		respondError(c, model.ErrAuthUnavailable)
		return
	}
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}
	session, err := h.authenticator.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout はトークンを失効させる
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.authenticator == nil {
		respondError(c, model.ErrAuthUnavailable)
		return
	}
	token := bearerToken(c)
	if token == "" {
		respondError(c, model.ErrUnauthorized)
		return
	}
	if err := h.authenticator.SignOut(c.Request.Context(), token); err != nil {
		log.Printf("⚠️ ログアウト処理でエラー: %v", err)
	}
	c.Status(http.StatusNoContent)
}

// RequireAdmin はBearerトークンを検証するミドルウェア
func (h *AuthHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.authenticator == nil {
			respondError(c, model.ErrAuthUnavailable)
			c.Abort()
			return
		}
		user, err := h.authenticator.Verify(c.Request.Context(), bearerToken(c))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(adminUserKey, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
