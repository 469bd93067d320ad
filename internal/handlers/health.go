package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	appErrors "github.com/hadrian75/campusfound/pkg/errors"
	"github.com/hadrian75/campusfound/pkg/response"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live reports process liveness.
func (h *HealthHandler) Live(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"})
}

// Ready reports whether the database is reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil {
		response.Error(c, appErrors.ErrStoreUnavailable)
		return
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		response.Error(c, appErrors.ErrStoreUnavailable.WithInternal(err))
		return
	}
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		response.Error(c, appErrors.ErrStoreUnavailable.WithInternal(err))
		return
	}

	response.OK(c, gin.H{"status": "ready"})
}
