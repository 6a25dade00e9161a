// Package health exposes liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves /health and /ready.
type Handler struct {
	db      Pinger
	service string
}

// NewHandler creates a health handler that checks the given database on /ready.
func NewHandler(db *gorm.DB, service string) *Handler {
	var p Pinger
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			p = sqlDB
		}
	}
	return &Handler{db: p, service: service}
}

// NewHandlerWithPinger is used where no gorm handle exists, mostly in tests.
func NewHandlerWithPinger(p Pinger, service string) *Handler {
	return &Handler{db: p, service: service}
}

// RegisterRoutes mounts the endpoints at the router root.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

// Health always answers 200 while the process is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready answers 503 until the database responds to a ping.
func (h *Handler) Ready(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.service, "database": "not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.service, "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.service, "database": "ok"})
}
