package analyticsapi

import (
	"net/http"
	"strings"

	"seo-dashboard/internal/domain/analytics"

	"github.com/gin-gonic/gin"
)

const maxEventName = 100

type Handler struct {
	Events *analytics.Buffer
}

type TrackRequest struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

// POST /api/analytics/track
func (h *Handler) Track(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxEventName {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid event name"})
		return
	}

	ev := h.Events.Track(name, req.Properties)
	c.JSON(http.StatusAccepted, gin.H{"id": ev.ID})
}
