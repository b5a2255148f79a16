package auth

import (
	"context"
	"log/slog"
	"net/http"

	"seo-dashboard/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie the dashboard keeps the Supabase access token in.
const SessionCookie = "sb-access-token"

type SessionRevoker interface {
	Logout(ctx context.Context, accessToken string) error
}

type Handler struct {
	Sessions SessionRevoker
	Log      *slog.Logger
}

// POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
			token, ok = cookie, true
		}
	}

	if ok {
		if err := h.Sessions.Logout(c.Request.Context(), token); err != nil {
			h.Log.Error("logout failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
