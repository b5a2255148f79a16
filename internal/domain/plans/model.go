package plans

type Plan struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	WebsiteLimit int    `json:"website_limit"`
	KeywordLimit int    `json:"keyword_limit"`
	PayPalPlanID string `json:"paypal_plan_id,omitempty"`
	// Price and Currency are the one-off PayPal order amount. Empty means
	// the plan can only be bought as a subscription.
	Price    string `json:"price,omitempty"`
	Currency string `json:"currency,omitempty"`
}

func (p Plan) Paid() bool { return p.Key != KeyFree }
