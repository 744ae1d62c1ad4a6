package controllers

import (
	"context"
	"net/http"
	"time"

	"facturacion-backend/logger"
	"facturacion-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports 200 while the database answers a ping within two seconds.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.FromGin(c).Warn("health check failed", zap.Error(err))
			utils.RespondWithError(c, http.StatusServiceUnavailable, "Servicio no disponible")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
