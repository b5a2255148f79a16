package routes

import (
	"context"
	"log/slog"
	"net/http"

	"seo-dashboard/config"
	adminapi "seo-dashboard/internal/api/admin"
	analyticsapi "seo-dashboard/internal/api/analytics"
	authapi "seo-dashboard/internal/api/auth"
	dataapi "seo-dashboard/internal/api/data"
	encryptapi "seo-dashboard/internal/api/encrypt"
	"seo-dashboard/internal/api/oauth"
	paypalapi "seo-dashboard/internal/api/paypal"
	usersapi "seo-dashboard/internal/api/users"
	"seo-dashboard/internal/app/http/middleware"
	"seo-dashboard/internal/domain/analytics"
	"seo-dashboard/internal/domain/integrations"
	"seo-dashboard/internal/domain/plans"
	"seo-dashboard/internal/domain/users"
	"seo-dashboard/internal/infra/vault"

	"github.com/gin-gonic/gin"
)

// UserStore is everything the routes need from the users table.
type UserStore interface {
	Get(ctx context.Context, id string) (*users.User, error)
	Create(ctx context.Context, u *users.User) error
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*users.User, error)
	UpdateSubscription(ctx context.Context, id string, upd users.SubscriptionUpdate) (*users.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, from, to int) ([]users.User, int64, error)
	CountByPlan(ctx context.Context) (map[string]int64, error)
}

type IntegrationStore interface {
	dataapi.RowStore
	oauth.TokenStore
}

type Deps struct {
	Config config.Config
	Log    *slog.Logger

	Users        UserStore
	Integrations IntegrationStore
	Webhooks     paypalapi.EventLedger
	PayPal       paypalapi.PayPal
	Sessions     authapi.SessionRevoker
	IDTokens     oauth.EmailVerifier

	// Vault is nil when ENCRYPTION_KEY is not configured.
	Vault   *vault.Vault
	Catalog *plans.Catalog
	Events  *analytics.Buffer
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// A nil *vault.Vault must stay a nil interface.
	var (
		textVault  encryptapi.Encrypter
		tokenVault oauth.Encrypter
	)
	if d.Vault != nil {
		textVault, tokenVault = d.Vault, d.Vault
	}

	oauthH := &oauth.Handler{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		SiteURL:      cfg.SiteURL,
		Tokens:       d.Integrations,
		Vault:        tokenVault,
		IDTokens:     d.IDTokens,
		Log:          d.Log,
	}
	dataH := &dataapi.Handler{Rows: d.Integrations, Log: d.Log}
	paypalH := &paypalapi.Handler{
		Users:     d.Users,
		PayPal:    d.PayPal,
		Events:    d.Webhooks,
		Catalog:   d.Catalog,
		WebhookID: cfg.PayPal.WebhookID,
		Log:       d.Log,
	}
	usersH := &usersapi.Handler{Users: d.Users, Catalog: d.Catalog, Log: d.Log}
	authH := &authapi.Handler{Sessions: d.Sessions, Log: d.Log}
	encryptH := &encryptapi.Handler{Vault: textVault, Log: d.Log}
	analyticsH := &analyticsapi.Handler{Events: d.Events}
	adminH := &adminapi.Handler{Users: d.Users, Events: d.Events, Log: d.Log}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	for _, p := range oauth.Providers() {
		api.GET("/"+p+"/authorize", oauthH.Authorize(p))
		api.GET("/"+p+"/callback", oauthH.Callback(p))
	}

	data := api.Group("/data")
	data.Use(middleware.RequireUserHeader())
	for _, kind := range integrations.Kinds() {
		data.GET("/"+string(kind), dataH.List(kind))
	}

	// PayPal verifies the raw webhook body, so it must not be rewritten.
	api.POST("/paypal/webhook", paypalH.Webhook)
	api.POST("/paypal/activate", paypalH.Activate)
	api.GET("/paypal/plans", paypalH.ListPlans)

	api.POST("/auth/logout", authH.Logout)
	api.POST("/encrypt", encryptH.Encrypt)
	api.GET("/user-profile", usersH.Profile)

	public := api.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.POST("/users/create", usersH.Create)
	public.POST("/analytics/track", analyticsH.Track)

	// Authenticated
	auth := api.Group("/")
	auth.Use(middleware.AuthMiddleware(cfg.SupabaseJWTSecret))
	auth.GET("/users/me", usersH.Me)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.SupabaseJWTSecret), middleware.RequireRole(users.RoleAdmin, d.Users))
	admin.GET("/users", adminH.ListUsers)
	admin.GET("/stats", adminH.Stats)
	admin.GET("/analytics/events", adminH.ListEvents)
	admin.DELETE("/analytics/events", adminH.ClearEvents)
}
