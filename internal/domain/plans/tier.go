package plans

import "strings"

const (
	KeyFree    = "free"
	KeyStarter = "starter"
	KeyPro     = "pro"
	KeyAgency  = "agency"
)

// defaults holds the limits of every plan. PayPal plan ids are filled in from
// configuration by NewCatalog.
var defaults = []Plan{
	{Key: KeyFree, Name: "Free", WebsiteLimit: 1, KeywordLimit: 10},
	{Key: KeyStarter, Name: "Starter", WebsiteLimit: 3, KeywordLimit: 100},
	{Key: KeyPro, Name: "Pro", WebsiteLimit: 10, KeywordLimit: 500},
	{Key: KeyAgency, Name: "Agency", WebsiteLimit: 50, KeywordLimit: 2500},
}

// Catalog is the ordered, read-only plan list.
type Catalog struct {
	plans []Plan
}

// NewCatalog binds PayPal billing plan ids (keyed by plan key) to the
// built-in plans. Unknown keys are ignored.
func NewCatalog(paypalPlanIDs map[string]string) *Catalog {
	out := make([]Plan, len(defaults))
	copy(out, defaults)
	for i := range out {
		if id := strings.TrimSpace(paypalPlanIDs[out[i].Key]); id != "" {
			out[i].PayPalPlanID = id
		}
	}
	return &Catalog{plans: out}
}

// WithPrices returns a copy of the catalog with one-off order prices (keyed
// by plan key) in currency. The free plan never gets a price.
func (c *Catalog) WithPrices(currency string, prices map[string]string) *Catalog {
	out := c.All()
	currency = strings.ToUpper(strings.TrimSpace(currency))
	for i := range out {
		price := strings.TrimSpace(prices[out[i].Key])
		if price == "" || !out[i].Paid() {
			continue
		}
		out[i].Price = price
		out[i].Currency = currency
	}
	return &Catalog{plans: out}
}

func (c *Catalog) All() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Lookup finds a plan by key, case-insensitively.
func (c *Catalog) Lookup(key string) (Plan, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range c.plans {
		if p.Key == key {
			return p, true
		}
	}
	return Plan{}, false
}

// ByPayPalPlanID maps a PayPal billing plan id back to a plan.
func (c *Catalog) ByPayPalPlanID(id string) (Plan, bool) {
	if id == "" {
		return Plan{}, false
	}
	for _, p := range c.plans {
		if p.PayPalPlanID == id {
			return p, true
		}
	}
	return Plan{}, false
}

func (c *Catalog) Free() Plan {
	p, _ := c.Lookup(KeyFree)
	return p
}
