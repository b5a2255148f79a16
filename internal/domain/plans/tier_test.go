package plans

import "testing"

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog(map[string]string{KeyPro: " P-PRO ", "unknown": "P-X"})

	p, ok := c.Lookup("PRO")
	if !ok {
		t.Fatal("Expected pro plan")
	}
	if p.PayPalPlanID != "P-PRO" || p.WebsiteLimit != 10 || p.KeywordLimit != 500 {
		t.Errorf("Unexpected plan %+v", p)
	}

	if _, ok := c.Lookup("platinum"); ok {
		t.Error("Expected unknown plan to be missing")
	}
}

func TestCatalogByPayPalPlanID(t *testing.T) {
	c := NewCatalog(map[string]string{KeyStarter: "P-START"})

	p, ok := c.ByPayPalPlanID("P-START")
	if !ok || p.Key != KeyStarter {
		t.Errorf("Expected starter, got %+v (ok=%v)", p, ok)
	}
	if _, ok := c.ByPayPalPlanID(""); ok {
		t.Error("Empty id must not match plans without a PayPal id")
	}
}

func TestCatalogIsolation(t *testing.T) {
	c := NewCatalog(nil)
	all := c.All()
	all[0].WebsiteLimit = 999

	if c.Free().WebsiteLimit != 1 {
		t.Error("All() must return a copy")
	}
	if c.Free().Paid() {
		t.Error("Free plan must not be paid")
	}
}

func TestCatalogWithPrices(t *testing.T) {
	base := NewCatalog(nil)
	c := base.WithPrices("usd", map[string]string{KeyAgency: "199.00", KeyFree: "5.00"})

	agency, _ := c.Lookup(KeyAgency)
	if agency.Price != "199.00" || agency.Currency != "USD" {
		t.Errorf("Unexpected agency price %+v", agency)
	}
	if free := c.Free(); free.Price != "" {
		t.Errorf("Free plan must stay unpriced, got %q", free.Price)
	}
	if p, _ := base.Lookup(KeyAgency); p.Price != "" {
		t.Error("WithPrices must not modify the receiver")
	}
}
