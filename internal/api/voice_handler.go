package api

import (
	"net/http"

	"roleplay-online/backend/internal/service"
	"roleplay-online/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type VoiceHandler struct {
	voice *service.VoiceService
}

func NewVoiceHandler(voice *service.VoiceService) *VoiceHandler {
	return &VoiceHandler{voice: voice}
}

type synthesizeRequest struct {
	CharacterID  string `json:"character_id" binding:"required"`
	Text         string `json:"text" binding:"required"`
	MessageIndex int    `json:"message_index"`
}

// Synthesize toggles speech for one assistant message. Re-sending the same
// index stops playback; failures come back as a non-playing result.
func (h *VoiceHandler) Synthesize(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.voice.Synthesize(c.Request.Context(), middleware.UserEmail(c), req.CharacterID, req.Text, req.MessageIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
