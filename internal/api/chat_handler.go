package api

import (
	"net/http"

	"roleplay-online/backend/internal/service"
	"roleplay-online/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat       *service.ChatService
	characters *service.CharacterService
	sessions   *service.SessionService
}

func NewChatHandler(chat *service.ChatService, characters *service.CharacterService, sessions *service.SessionService) *ChatHandler {
	return &ChatHandler{chat: chat, characters: characters, sessions: sessions}
}

type sendMessageRequest struct {
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

// History loads the chat log with a character, seeding the greeting on
// first entry, and moves the session into the chatting state.
func (h *ChatHandler) History(c *gin.Context) {
	email := middleware.UserEmail(c)
	char, err := h.characters.Get(c.Param("characterId"))
	if err != nil {
		respondError(c, err)
		return
	}

	messages, err := h.chat.History(email, char)
	if err != nil {
		respondError(c, err)
		return
	}
	h.sessions.EnterChat(email, char.ID)
	c.JSON(http.StatusOK, messages)
}

// Send runs one chat turn and returns both persisted messages.
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	char, err := h.characters.Get(c.Param("characterId"))
	if err != nil {
		respondError(c, err)
		return
	}

	userMsg, assistantMsg, err := h.chat.Send(c.Request.Context(), middleware.UserEmail(c), char, req.Content, req.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_message":      userMsg,
		"assistant_message": assistantMsg,
	})
}

// Recent returns the recency index and moves the session back to browsing.
func (h *ChatHandler) Recent(c *gin.Context) {
	email := middleware.UserEmail(c)
	recent, err := h.chat.Recent(email)
	if err != nil {
		respondError(c, err)
		return
	}
	h.sessions.LeaveChat(email)
	c.JSON(http.StatusOK, recent)
}
