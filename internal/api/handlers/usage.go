package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"octopus-dashboard/internal/api/models"
	"octopus-dashboard/internal/credentials"
	"octopus-dashboard/internal/dashboard"
)

// UsageHandler serves the composite live-usage snapshot.
type UsageHandler struct {
	store   *credentials.CookieStore
	service *dashboard.Service
}

// NewUsageHandler creates a handler around the cookie store and snapshot
// service.
func NewUsageHandler(store *credentials.CookieStore, service *dashboard.Service) *UsageHandler {
	return &UsageHandler{store: store, service: service}
}

// LiveUsage handles GET /api/live-usage. A missing or undecryptable cookie
// is a 401, missing electricity serial a 400, and any propagated upstream
// failure a 500 with a short message.
func (h *UsageHandler) LiveUsage(c *gin.Context) {
	creds, err := h.store.Read(c)
	if err != nil {
		log.Printf("[API] Rejecting live-usage request: %v", err)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "No credentials found"})
		return
	}
	if creds.SerialNumber == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Meter serial number is required"})
		return
	}

	snapshot, err := h.service.Snapshot(c.Request.Context(), creds)
	if err != nil {
		log.Printf("[API] Error processing live usage request: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
