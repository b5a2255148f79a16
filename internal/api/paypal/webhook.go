package paypalapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"seo-dashboard/internal/domain/users"
	"seo-dashboard/internal/infra/paypal"
	"seo-dashboard/internal/store"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 64 << 10

const (
	EventSubscriptionActivated = "BILLING.SUBSCRIPTION.ACTIVATED"
	EventSubscriptionUpdated   = "BILLING.SUBSCRIPTION.UPDATED"
	EventSubscriptionCancelled = "BILLING.SUBSCRIPTION.CANCELLED"
	EventSubscriptionSuspended = "BILLING.SUBSCRIPTION.SUSPENDED"
	EventSubscriptionExpired   = "BILLING.SUBSCRIPTION.EXPIRED"
)

type webhookEvent struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Resource  json.RawMessage `json:"resource"`
}

// POST /api/paypal/webhook
func (h *Handler) Webhook(c *gin.Context) {
	if h.WebhookID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PAYPAL_WEBHOOK_ID not configured"})
		return
	}

	payload, err := readBody(c, maxWebhookBody)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request body"})
		return
	}

	ctx := c.Request.Context()
	ok, err := h.PayPal.VerifyWebhookSignature(ctx, h.WebhookID, paypal.WebhookHeadersFrom(c.Request.Header), payload)
	if err != nil {
		h.Log.Error("paypal webhook verification call failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not verify signature"})
		return
	}
	if !ok {
		h.Log.Warn("paypal webhook signature rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil || event.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event"})
		return
	}

	switch event.EventType {
	case EventSubscriptionActivated, EventSubscriptionUpdated, EventSubscriptionCancelled,
		EventSubscriptionSuspended, EventSubscriptionExpired:
	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	var sub paypal.Subscription
	if err := json.Unmarshal(event.Resource, &sub); err != nil || sub.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
		return
	}

	fresh, err := h.Events.MarkProcessed(ctx, event.ID, event.EventType)
	if err != nil {
		h.Log.Error("record webhook event", "event_id", event.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !fresh {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	err = h.applySubscriptionEvent(ctx, event.EventType, &sub)
	if errors.Is(err, store.ErrConflict) {
		// Another account already holds this subscription id; redelivery cannot fix that.
		h.Log.Warn("webhook subscription held by another user", "event_id", event.ID, "subscription_id", sub.ID)
		c.JSON(http.StatusOK, gin.H{"status": "conflict"})
		return
	}
	if err != nil {
		h.Log.Error("apply webhook event", "event_id", event.ID, "type", event.EventType, "err", err)
		if ferr := h.Events.Forget(ctx, event.ID); ferr != nil {
			h.Log.Error("forget webhook event", "event_id", event.ID, "err", ferr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (h *Handler) applySubscriptionEvent(ctx context.Context, eventType string, sub *paypal.Subscription) error {
	user, err := h.subscriber(ctx, sub)
	if errors.Is(err, store.ErrNotFound) {
		h.Log.Warn("webhook for unknown subscriber", "subscription_id", sub.ID, "type", eventType)
		return nil
	}
	if err != nil {
		return err
	}

	switch eventType {
	case EventSubscriptionActivated, EventSubscriptionUpdated:
		plan, ok := h.Catalog.ByPayPalPlanID(sub.PlanID)
		if !ok {
			h.Log.Warn("webhook for unknown paypal plan", "plan_id", sub.PlanID, "user_id", user.ID)
			return h.Users.UpdateStatus(ctx, user.ID, paypal.StatusActive)
		}
		_, err := h.Users.UpdateSubscription(ctx, user.ID, users.SubscriptionUpdate{
			Plan:           plan.Key,
			SubscriptionID: &sub.ID,
			Status:         paypal.StatusActive,
			WebsiteLimit:   plan.WebsiteLimit,
			KeywordLimit:   plan.KeywordLimit,
		})
		return err

	case EventSubscriptionCancelled:
		return h.Users.UpdateStatus(ctx, user.ID, paypal.StatusCanceled)

	case EventSubscriptionSuspended:
		return h.Users.UpdateStatus(ctx, user.ID, paypal.StatusPastDue)

	case EventSubscriptionExpired:
		free := h.Catalog.Free()
		_, err := h.Users.UpdateSubscription(ctx, user.ID, users.SubscriptionUpdate{
			Plan:         free.Key,
			Status:       paypal.StatusCanceled,
			WebsiteLimit: free.WebsiteLimit,
			KeywordLimit: free.KeywordLimit,
		})
		return err
	}
	return nil
}

// subscriber resolves the user a subscription belongs to: custom_id first,
// then the stored subscription id.
func (h *Handler) subscriber(ctx context.Context, sub *paypal.Subscription) (*users.User, error) {
	if sub.CustomID != "" {
		user, err := h.Users.Get(ctx, sub.CustomID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return h.Users.FindBySubscriptionID(ctx, sub.ID)
}

func readBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
