// Package supabase talks to the hosted auth service (GoTrue) behind
// SUPABASE_URL.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrNotConfigured = errors.New("supabase: url or api key not configured")

type AuthClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	tracer  trace.Tracer
}

func NewAuthClient(baseURL, apiKey string) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		tracer:  otel.Tracer("seo-dashboard/supabase"),
	}
}

// Logout revokes every refresh token of the session that issued accessToken.
func (a *AuthClient) Logout(ctx context.Context, accessToken string) (err error) {
	if a.baseURL == "" || a.apiKey == "" {
		return ErrNotConfigured
	}

	ctx, span := a.tracer.Start(ctx, "supabase.Logout")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", a.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: logout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	// An already-expired session has nothing left to revoke.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return nil
	}

	var body struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)
	msg := body.Msg
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("supabase: logout failed (%d): %s", resp.StatusCode, msg)
}
