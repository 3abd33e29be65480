package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/db"
)

func HealthCheck(ctx *gin.Context) {
	sqlDB, err := db.DB.DB()

	if err != nil || sqlDB.Ping() != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
