package admin

import (
	"context"
	"log/slog"
	"net/http"

	"seo-dashboard/internal/domain/analytics"
	"seo-dashboard/internal/domain/users"
	"seo-dashboard/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type UserStore interface {
	List(ctx context.Context, from, to int) ([]users.User, int64, error)
	CountByPlan(ctx context.Context) (map[string]int64, error)
}

type Handler struct {
	Users    UserStore
	Events   *analytics.Buffer
	Log      *slog.Logger
	PageSize int
}

type AdminUser struct {
	ID                 string  `json:"id"`
	Email              string  `json:"email"`
	FullName           *string `json:"full_name,omitempty"`
	Role               string  `json:"role"`
	Plan               string  `json:"plan"`
	SubscriptionID     *string `json:"subscription_id,omitempty"`
	SubscriptionStatus string  `json:"subscription_status"`
	CreatedAt          string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers     int64            `json:"total_users"`
	UsersPerPlan   map[string]int64 `json:"users_per_plan"`
	BufferedEvents int              `json:"buffered_events"`
}

func (h *Handler) pageSize() int {
	if h.PageSize > 0 {
		return h.PageSize
	}
	return pagination.DefaultPageSize
}

// GET /api/admin/users?page=N
func (h *Handler) ListUsers(c *gin.Context) {
	page := pagination.ParsePage(c.Query("page"))
	size := h.pageSize()
	from, to := pagination.Range(page, size)

	rows, total, err := h.Users.List(c.Request.Context(), from, to)
	if err != nil {
		h.Log.Error("list users", "page", page, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	out := make([]AdminUser, 0, len(rows))
	for _, u := range rows {
		out = append(out, AdminUser{
			ID:                 u.ID,
			Email:              u.Email,
			FullName:           u.FullName,
			Role:               u.Role,
			Plan:               u.Plan,
			SubscriptionID:     u.SubscriptionID,
			SubscriptionStatus: u.SubscriptionStatus,
			CreatedAt:          u.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, pagination.NewEnvelope(out, total, page, size))
}

// GET /api/admin/stats
func (h *Handler) Stats(c *gin.Context) {
	perPlan, err := h.Users.CountByPlan(c.Request.Context())
	if err != nil {
		h.Log.Error("admin stats", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	var stats AdminStats
	stats.UsersPerPlan = perPlan
	for _, n := range perPlan {
		stats.TotalUsers += n
	}
	stats.BufferedEvents = h.Events.Len()

	c.JSON(http.StatusOK, stats)
}

// GET /api/admin/analytics/events
func (h *Handler) ListEvents(c *gin.Context) {
	events := h.Events.Events()
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// DELETE /api/admin/analytics/events
func (h *Handler) ClearEvents(c *gin.Context) {
	n := h.Events.Clear()
	h.Log.Info("analytics buffer cleared", "events", n, "by", c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"cleared": n})
}
