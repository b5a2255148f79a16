package users

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Plan         PlanDTO          `json:"plan"`
	Subscription *SubscriptionDTO `json:"subscription"`
	Limits       LimitsDTO        `json:"limits"`
}

type PlanDTO struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	PayPalPlanID string `json:"paypal_plan_id,omitempty"`
}

type SubscriptionDTO struct {
	Status         string `json:"status"`
	SubscriptionID string `json:"subscription_id"`
	Active         bool   `json:"active"`
}

// LimitsDTO is what the user row grants, which can lag the catalog after a
// plan change until the next billing event.
type LimitsDTO struct {
	Websites int `json:"websites"`
	Keywords int `json:"keywords"`
}
