package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lanes/internal/config"
)

// GetConfig returns the active gameplay tuning so clients can mirror the
// launch limits and power meter.
func GetConfig(cfg *config.Config, tuning *config.Tuning) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tick_rate_hz": cfg.TickRateHz,
			"broadcast_hz": cfg.BroadcastHz,
			"max_sessions": cfg.MaxSessions,
			"tuning":       tuning,
		})
	}
}
