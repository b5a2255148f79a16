package paypalapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/paypal/plans
func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.Catalog.All()})
}
