package oauth

import (
	"golang.org/x/oauth2"
)

const (
	scopeAnalytics     = "https://www.googleapis.com/auth/analytics.readonly"
	scopeSearchConsole = "https://www.googleapis.com/auth/webmasters.readonly"
)

// Provider routes are /api/<name>/authorize and /api/<name>/callback.
const (
	ProviderGA     = "ga"
	ProviderGSC    = "gsc"
	ProviderGoogle = "google"
)

var providerScopes = map[string][]string{
	ProviderGA:     {scopeAnalytics},
	ProviderGSC:    {scopeSearchConsole},
	ProviderGoogle: {"openid", "email", "profile", scopeAnalytics, scopeSearchConsole},
}

// Providers lists the provider route names in registration order.
func Providers() []string {
	return []string{ProviderGA, ProviderGSC, ProviderGoogle}
}

// Scopes returns a copy of the fixed scope list of provider.
func Scopes(provider string) []string {
	s := providerScopes[provider]
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// AuthURL builds the consent redirect. The user id travels as state so the
// callback knows whose grant it received; offline access plus forced consent
// makes Google return a refresh token every time.
func AuthURL(cfg *oauth2.Config, userID string) string {
	return cfg.AuthCodeURL(userID, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}
