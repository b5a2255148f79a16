package paypalapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"seo-dashboard/internal/domain/plans"
	"seo-dashboard/internal/domain/users"
	"seo-dashboard/internal/infra/paypal"
	"seo-dashboard/internal/store"

	"github.com/gin-gonic/gin"
)

type ActivateRequest struct {
	UserID         string `json:"userId"`
	Plan           string `json:"plan"`
	SubscriptionID string `json:"subscriptionId"`
	OrderID        string `json:"orderId"`
}

// errNotConfirmed is returned when PayPal answers but does not vouch for the
// payment.
var errNotConfirmed = errors.New("payment not confirmed")

// POST /api/paypal/activate
func (h *Handler) Activate(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.SubscriptionID = strings.TrimSpace(req.SubscriptionID)
	req.OrderID = strings.TrimSpace(req.OrderID)

	if req.UserID == "" || strings.TrimSpace(req.Plan) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId or plan"})
		return
	}

	plan, ok := h.Catalog.Lookup(req.Plan)
	if !ok || !plan.Paid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan"})
		return
	}

	if req.SubscriptionID == "" && req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing subscriptionId or orderId"})
		return
	}

	ctx := c.Request.Context()
	if err := h.confirmPayment(ctx, req, plan); err != nil {
		if errors.Is(err, errNotConfirmed) {
			h.Log.Warn("paypal payment not confirmed", "user_id", req.UserID, "plan", plan.Key, "err", err)
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment not confirmed by PayPal"})
			return
		}
		status := paypalStatus(err)
		if status == http.StatusPaymentRequired {
			c.JSON(status, gin.H{"error": "Payment not confirmed by PayPal"})
			return
		}
		h.Log.Error("paypal verification failed", "user_id", req.UserID, "err", err)
		c.JSON(status, gin.H{"error": "Could not verify payment with PayPal"})
		return
	}

	ref := req.SubscriptionID
	if ref == "" {
		ref = req.OrderID
	}
	holder, err := h.Users.FindBySubscriptionID(ctx, ref)
	switch {
	case err == nil && holder.ID != req.UserID:
		h.Log.Warn("paypal payment already linked", "user_id", req.UserID, "holder_id", holder.ID, "ref", ref)
		c.JSON(http.StatusConflict, gin.H{"error": "Payment already linked to another account"})
		return
	case err != nil && !errors.Is(err, store.ErrNotFound):
		h.Log.Error("look up payment holder", "ref", ref, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	upd := users.SubscriptionUpdate{
		Plan:           plan.Key,
		SubscriptionID: &ref,
		Status:         paypal.StatusActive,
		WebsiteLimit:   plan.WebsiteLimit,
		KeywordLimit:   plan.KeywordLimit,
	}

	user, err := h.Users.UpdateSubscription(ctx, req.UserID, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, store.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment already linked to another account"})
		default:
			h.Log.Error("activate subscription", "user_id", req.UserID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.Log.Info("subscription activated", "user_id", user.ID, "plan", plan.Key)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// confirmPayment asks PayPal about the subscription (or order) the browser
// reported. Nothing the client sent is trusted beyond the ids: the resource
// must be paid, carry the user's id as custom_id and match the plan.
func (h *Handler) confirmPayment(ctx context.Context, req ActivateRequest, plan plans.Plan) error {
	if req.SubscriptionID != "" {
		if plan.PayPalPlanID == "" {
			return fmt.Errorf("%w: plan %s has no paypal plan id", errNotConfirmed, plan.Key)
		}
		sub, err := h.PayPal.GetSubscription(ctx, req.SubscriptionID)
		if err != nil {
			return err
		}
		if !paypal.SubscriptionConfirmed(sub.Status) {
			return fmt.Errorf("%w: subscription %s is %s", errNotConfirmed, sub.ID, sub.Status)
		}
		if sub.PlanID != plan.PayPalPlanID {
			return fmt.Errorf("%w: subscription plan %s does not match %s", errNotConfirmed, sub.PlanID, plan.Key)
		}
		if sub.CustomID != req.UserID {
			return fmt.Errorf("%w: subscription custom_id %q is not the user", errNotConfirmed, sub.CustomID)
		}
		return nil
	}

	if plan.Price == "" {
		return fmt.Errorf("%w: plan %s has no order price", errNotConfirmed, plan.Key)
	}
	order, err := h.PayPal.GetOrder(ctx, req.OrderID)
	if err != nil {
		return err
	}
	if !paypal.OrderConfirmed(order.Status) {
		return fmt.Errorf("%w: order %s is %s", errNotConfirmed, order.ID, order.Status)
	}
	if order.CustomID() != req.UserID {
		return fmt.Errorf("%w: order custom_id %q is not the user", errNotConfirmed, order.CustomID())
	}
	paid, ok := order.CapturedAmount()
	if !ok {
		return fmt.Errorf("%w: order %s has no completed capture", errNotConfirmed, order.ID)
	}
	if !paid.Equal(paypal.Money{CurrencyCode: plan.Currency, Value: plan.Price}) {
		return fmt.Errorf("%w: order paid %s %s, plan %s costs %s %s", errNotConfirmed,
			paid.Value, paid.CurrencyCode, plan.Key, plan.Price, plan.Currency)
	}
	return nil
}
