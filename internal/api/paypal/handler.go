// Package paypalapi serves the PayPal billing routes: activation after
// checkout, the webhook and the plan listing.
package paypalapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"seo-dashboard/internal/domain/plans"
	"seo-dashboard/internal/domain/users"
	"seo-dashboard/internal/infra/paypal"
)

type UserStore interface {
	Get(ctx context.Context, id string) (*users.User, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*users.User, error)
	UpdateSubscription(ctx context.Context, id string, upd users.SubscriptionUpdate) (*users.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// PayPal is the subset of the REST API the billing routes call.
type PayPal interface {
	GetSubscription(ctx context.Context, id string) (*paypal.Subscription, error)
	GetOrder(ctx context.Context, id string) (*paypal.Order, error)
	VerifyWebhookSignature(ctx context.Context, webhookID string, h paypal.WebhookHeaders, body []byte) (bool, error)
}

// EventLedger remembers processed webhook event ids.
type EventLedger interface {
	MarkProcessed(ctx context.Context, id, eventType string) (bool, error)
	Forget(ctx context.Context, id string) error
}

type Handler struct {
	Users     UserStore
	PayPal    PayPal
	Events    EventLedger
	Catalog   *plans.Catalog
	WebhookID string
	Log       *slog.Logger
}

// paypalStatus maps a PayPal call failure onto the response status: a
// resource PayPal does not know or rejects is an unconfirmed payment, a
// transport failure is a bad gateway.
func paypalStatus(err error) int {
	var apiErr *paypal.APIError
	switch {
	case errors.Is(err, paypal.ErrNotConfigured):
		return http.StatusInternalServerError
	case errors.Is(err, paypal.ErrNotFound):
		return http.StatusPaymentRequired
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return http.StatusPaymentRequired
	default:
		return http.StatusBadGateway
	}
}

