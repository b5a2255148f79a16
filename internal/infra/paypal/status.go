package paypal

import "strings"

// Local subscription_status values stored on users rows.
const (
	StatusNone     = "none"
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// NormalizeSubscriptionStatus maps PayPal's upper-case subscription states to
// the local subscription_status vocabulary.
func NormalizeSubscriptionStatus(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return StatusNone
	case "ACTIVE", "APPROVED":
		return StatusActive
	case "APPROVAL_PENDING":
		return StatusPending
	case "SUSPENDED":
		return StatusPastDue
	case "CANCELLED", "EXPIRED":
		return StatusCanceled
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}

// SubscriptionConfirmed reports whether the buyer has approved the
// subscription and PayPal will bill it.
func SubscriptionConfirmed(status string) bool {
	return NormalizeSubscriptionStatus(status) == StatusActive
}

// OrderConfirmed reports whether a one-off order was captured. APPROVED
// orders have not moved any money yet.
func OrderConfirmed(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), "COMPLETED")
}
