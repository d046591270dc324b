package api

import (
	"net/http"

	apperrors "roleplay-online/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto JSON error responses, keeping the
// AppError status when one is present.
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		c.JSON(appErr.StatusCode, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
