package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/reservations-api/utils"
)

// Pinger reports whether the backing database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and database checks
type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health handles GET /health
func (hc *HealthController) Health(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"status": "ok"})
}

// Database handles GET /health/database
func (hc *HealthController) Database(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hc.db.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Error("Database ping failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed"})
		return
	}
	respondData(c, http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}
