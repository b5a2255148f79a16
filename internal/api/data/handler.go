package data

import (
	"context"
	"log/slog"
	"net/http"

	"seo-dashboard/internal/domain/integrations"
	"seo-dashboard/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type RowStore interface {
	Page(ctx context.Context, kind integrations.Kind, userID string, from, to int) ([]integrations.Row, int64, error)
}

type Handler struct {
	Rows RowStore
	Log  *slog.Logger
	// PageSize defaults to pagination.DefaultPageSize.
	PageSize int
}

// List serves GET /api/data/<kind>?page=N for the user in x-user-id. It must
// run behind middleware.RequireUserHeader.
func (h *Handler) List(kind integrations.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		size := h.PageSize
		if size <= 0 {
			size = pagination.DefaultPageSize
		}
		page := pagination.ParsePage(c.Query("page"))
		from, to := pagination.Range(page, size)

		rows, total, err := h.Rows.Page(c.Request.Context(), kind, userID, from, to)
		if err != nil {
			h.Log.Error("fetch integration data", "kind", kind, "user_id", userID, "page", page, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, pagination.NewEnvelope(rows, total, page, size))
	}
}
