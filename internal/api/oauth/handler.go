package oauth

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"seo-dashboard/internal/domain/integrations"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type TokenStore interface {
	SaveToken(ctx context.Context, tok *integrations.Token) error
}

type Encrypter interface {
	Encrypt(plaintext string) (string, error)
}

type EmailVerifier interface {
	VerifiedEmail(ctx context.Context, rawIDToken string) (string, error)
}

type Handler struct {
	ClientID     string
	ClientSecret string
	SiteURL      string
	// Endpoint defaults to Google's.
	Endpoint oauth2.Endpoint

	Tokens   TokenStore
	Vault    Encrypter
	IDTokens EmailVerifier
	Log      *slog.Logger
}

func (h *Handler) config(provider string) *oauth2.Config {
	endpoint := h.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = google.Endpoint
	}
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  strings.TrimRight(h.SiteURL, "/") + "/api/" + provider + "/callback",
		Scopes:       Scopes(provider),
		Endpoint:     endpoint,
	}
}

// GET /api/<provider>/authorize?userId=ID
func (h *Handler) Authorize(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.Query("userId"))
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
			return
		}
		if h.ClientID == "" {
			h.Log.Error("google oauth client id not configured", "provider", provider)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Google OAuth client ID not configured"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"authUrl": AuthURL(h.config(provider), userID)})
	}
}

// GET /api/<provider>/callback?code=...&state=<userId>
func (h *Handler) Callback(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reason := c.Query("error"); reason != "" {
			h.redirect(c, "error", reason)
			return
		}

		code := c.Query("code")
		userID := c.Query("state")
		if code == "" || userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
			return
		}
		if h.ClientID == "" || h.Vault == nil {
			h.Log.Error("oauth callback not configured", "provider", provider, "vault", h.Vault != nil)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth callback not configured"})
			return
		}

		ctx := c.Request.Context()
		tok, err := h.config(provider).Exchange(ctx, code)
		if err != nil {
			h.Log.Warn("oauth code exchange failed", "provider", provider, "user_id", userID, "err", err)
			h.redirect(c, "error", "exchange_failed")
			return
		}

		var accountEmail *string
		if raw, ok := tok.Extra("id_token").(string); ok && raw != "" && h.IDTokens != nil {
			email, err := h.IDTokens.VerifiedEmail(ctx, raw)
			if err != nil {
				h.Log.Warn("id_token rejected", "provider", provider, "user_id", userID, "err", err)
				h.redirect(c, "error", "invalid_id_token")
				return
			}
			accountEmail = &email
		}

		row, err := h.tokenRow(provider, userID, tok)
		if err != nil {
			h.Log.Error("encrypt oauth token", "provider", provider, "err", err)
			h.redirect(c, "error", "storage_failed")
			return
		}
		row.AccountEmail = accountEmail

		if err := h.Tokens.SaveToken(ctx, row); err != nil {
			h.Log.Error("save oauth token", "provider", provider, "user_id", userID, "err", err)
			h.redirect(c, "error", "storage_failed")
			return
		}

		h.redirect(c, "connected", provider)
	}
}

func (h *Handler) tokenRow(provider, userID string, tok *oauth2.Token) (*integrations.Token, error) {
	access, err := h.Vault.Encrypt(tok.AccessToken)
	if err != nil {
		return nil, err
	}
	row := &integrations.Token{
		UserID:      userID,
		Provider:    provider,
		AccessToken: access,
	}
	if tok.RefreshToken != "" {
		refresh, err := h.Vault.Encrypt(tok.RefreshToken)
		if err != nil {
			return nil, err
		}
		row.RefreshToken = &refresh
	}
	if !tok.Expiry.IsZero() {
		exp := tok.Expiry.UTC().Truncate(time.Second)
		row.Expiry = &exp
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		row.Scope = scope
	}
	return row, nil
}

func (h *Handler) redirect(c *gin.Context, key, value string) {
	q := url.Values{}
	q.Set(key, value)
	c.Redirect(http.StatusFound, strings.TrimRight(h.SiteURL, "/")+"/dashboard?"+q.Encode())
}
