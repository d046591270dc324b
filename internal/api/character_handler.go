package api

import (
	"net/http"

	"roleplay-online/backend/internal/models"
	"roleplay-online/backend/internal/service"
	"roleplay-online/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type CharacterHandler struct {
	characters *service.CharacterService
}

func NewCharacterHandler(characters *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{characters: characters}
}

// List serves the gallery. Query params: tab (global|mine), category, q.
func (h *CharacterHandler) List(c *gin.Context) {
	filter := service.ListFilter{
		Tab:      c.DefaultQuery("tab", service.TabGlobal),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}
	characters, err := h.characters.List(middleware.UserEmail(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, characters)
}

// Get returns one character by id.
func (h *CharacterHandler) Get(c *gin.Context) {
	character, err := h.characters.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, character)
}

// Publish puts a user-authored character into the public gallery.
func (h *CharacterHandler) Publish(c *gin.Context) {
	var req models.PublishCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	character, err := h.characters.Publish(middleware.UserEmail(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, character)
}
