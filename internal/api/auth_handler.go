package api

import (
	"net/http"

	"roleplay-online/backend/internal/models"
	"roleplay-online/backend/internal/service"
	"roleplay-online/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users    *service.UserService
	sessions *service.SessionService
}

func NewAuthHandler(users *service.UserService, sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// Login completes the two-step login form in one request. The nickname of a
// returning email is ignored; the original record wins.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.sessions.Begin(req.Email)
	user, token, err := h.users.Login(req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.sessions.CompleteLogin(user.Email)

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.Get(middleware.UserEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
