package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"seo-dashboard/internal/domain/plans"
	"seo-dashboard/internal/domain/users"
	"seo-dashboard/internal/infra/paypal"
	"seo-dashboard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserStore interface {
	Get(ctx context.Context, id string) (*users.User, error)
	Create(ctx context.Context, u *users.User) error
}

type Handler struct {
	Users   UserStore
	Catalog *plans.Catalog
	Log     *slog.Logger
}

// GET /api/user-profile?userId=ID
func (h *Handler) Profile(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	}

	user, err := h.Users.Get(c.Request.Context(), userID)
	if err != nil {
		h.userError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": user.Plan})
}

type CreateUserRequest struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// POST /api/users/create
//
// Called after sign-up with the auth provider's user id. New accounts start
// on the free plan.
func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email"})
		return
	}

	free := h.Catalog.Free()
	user := &users.User{
		ID:                 id.String(),
		Email:              email,
		Role:               users.RoleUser,
		Plan:               free.Key,
		SubscriptionStatus: paypal.StatusNone,
		WebsiteLimit:       free.WebsiteLimit,
		KeywordLimit:       free.KeywordLimit,
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = &name
	}

	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
			return
		}
		h.Log.Error("create user", "user_id", user.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GET /api/users/me
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.Users.Get(c.Request.Context(), userID)
	if err != nil {
		h.userError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, BuildMeResponse(user, h.Catalog))
}

func (h *Handler) userError(c *gin.Context, userID string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	h.Log.Error("load user", "user_id", userID, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
