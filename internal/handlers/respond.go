package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Storage
// errors are logged with their cause and surfaced as a generic 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsForbidden(err):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsConflict(err):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Unexpected error handling %s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
