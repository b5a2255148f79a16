package users

import (
	"seo-dashboard/internal/domain/plans"
	"seo-dashboard/internal/domain/users"
	"seo-dashboard/internal/infra/paypal"
)

func BuildMeResponse(u *users.User, catalog *plans.Catalog) MeResponse {
	return MeResponse{
		User: UserDTO{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     u.Role,
		},
		Billing: BillingDTO{
			Plan:         BuildPlanDTO(u.Plan, catalog),
			Subscription: BuildSubscriptionDTO(u),
			Limits: LimitsDTO{
				Websites: u.WebsiteLimit,
				Keywords: u.KeywordLimit,
			},
		},
	}
}

// BuildPlanDTO falls back to the bare key for plans the catalog no longer
// knows.
func BuildPlanDTO(key string, catalog *plans.Catalog) PlanDTO {
	p, ok := catalog.Lookup(key)
	if !ok {
		return PlanDTO{Key: key, Name: key}
	}
	return PlanDTO{Key: p.Key, Name: p.Name, PayPalPlanID: p.PayPalPlanID}
}

func BuildSubscriptionDTO(u *users.User) *SubscriptionDTO {
	if u.SubscriptionID == nil || *u.SubscriptionID == "" {
		return nil
	}
	return &SubscriptionDTO{
		Status:         u.SubscriptionStatus,
		SubscriptionID: *u.SubscriptionID,
		Active:         u.SubscriptionStatus == paypal.StatusActive,
	}
}
