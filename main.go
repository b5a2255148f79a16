package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"seo-dashboard/config"
	"seo-dashboard/database"
	"seo-dashboard/internal/api/oauth"
	routes "seo-dashboard/internal/app/http"
	"seo-dashboard/internal/domain/analytics"
	"seo-dashboard/internal/domain/plans"
	"seo-dashboard/internal/infra/otel"
	"seo-dashboard/internal/infra/paypal"
	"seo-dashboard/internal/infra/supabase"
	"seo-dashboard/internal/infra/vault"
	"seo-dashboard/internal/logging"
	"seo-dashboard/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var setupTracing = otel.Setup

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	if err := run(); err != nil {
		log.Printf("seo-dashboard: %v", err)
		os.Exit(1)
	}
}

// run wires and serves the API. It returns instead of exiting so the deferred
// trace flush always happens.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.New(cfg.LogFormat)

	shutdown, err := setupTracing(context.Background(), "seo-dashboard", cfg.OTelEndpoint)
	if err != nil {
		logger.Error("tracing disabled", "err", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	db, err := database.InitDB(cfg.DatabaseURL, cfg.AutoMigrate, logger)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	var v *vault.Vault
	if cfg.EncryptionKey != "" {
		v, err = vault.New(cfg.EncryptionKey)
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
	} else {
		logger.Warn("ENCRYPTION_KEY not set; /api/encrypt and OAuth callbacks are disabled")
	}

	catalog := plans.NewCatalog(map[string]string{
		plans.KeyStarter: cfg.PayPal.StarterPlanID,
		plans.KeyPro:     cfg.PayPal.ProPlanID,
		plans.KeyAgency:  cfg.PayPal.AgencyPlanID,
	}).WithPrices(cfg.PayPal.Currency, map[string]string{
		plans.KeyStarter: cfg.PayPal.StarterPrice,
		plans.KeyPro:     cfg.PayPal.ProPrice,
		plans.KeyAgency:  cfg.PayPal.AgencyPrice,
	})

	r := gin.Default()

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-user-id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Log:          logger,
		Users:        store.NewUsers(db),
		Integrations: store.NewIntegrations(db),
		Webhooks:     store.NewWebhookEvents(db),
		PayPal: paypal.NewClient(paypal.Config{
			APIURL:       cfg.PayPal.APIURL,
			ClientID:     cfg.PayPal.ClientID,
			ClientSecret: cfg.PayPal.ClientSecret,
			AccessToken:  cfg.PayPal.AccessToken,
		}),
		Sessions: supabase.NewAuthClient(cfg.SupabaseURL, cfg.SupabaseServiceKey),
		IDTokens: &oauth.GoogleVerifier{ClientID: cfg.GoogleClientID},
		Vault:    v,
		Catalog:  catalog,
		Events:   analytics.NewBuffer(analytics.DefaultCapacity),
	})

	logger.Info("listening", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
