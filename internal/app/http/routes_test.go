package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"seo-dashboard/config"
	"seo-dashboard/internal/domain/analytics"
	"seo-dashboard/internal/domain/integrations"
	"seo-dashboard/internal/domain/plans"
	"seo-dashboard/internal/domain/users"
	"seo-dashboard/internal/infra/paypal"
	"seo-dashboard/internal/logging"
	"seo-dashboard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtSecret = "routes-test-secret-with-enough-length-0123"
	adminID   = "11111111-1111-4111-8111-111111111111"
	memberID  = "22222222-2222-4222-8222-222222222222"
)

type memUsers struct {
	rows map[string]*users.User
}

func (m *memUsers) Get(_ context.Context, id string) (*users.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get user %s: %w", id, store.ErrNotFound)
	}
	return u, nil
}

func (m *memUsers) Create(_ context.Context, u *users.User) error {
	if _, ok := m.rows[u.ID]; ok {
		return store.ErrConflict
	}
	m.rows[u.ID] = u
	return nil
}

func (m *memUsers) FindBySubscriptionID(context.Context, string) (*users.User, error) {
	return nil, store.ErrNotFound
}

func (m *memUsers) UpdateSubscription(_ context.Context, id string, upd users.SubscriptionUpdate) (*users.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Plan, u.SubscriptionStatus = upd.Plan, upd.Status
	return u, nil
}

func (m *memUsers) UpdateStatus(context.Context, string, string) error { return nil }

func (m *memUsers) List(context.Context, int, int) ([]users.User, int64, error) {
	out := make([]users.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *memUsers) CountByPlan(context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, u := range m.rows {
		out[u.Plan]++
	}
	return out, nil
}

type memIntegrations struct {
	userID string
}

func (m *memIntegrations) Page(_ context.Context, _ integrations.Kind, userID string, _, _ int) ([]integrations.Row, int64, error) {
	m.userID = userID
	return nil, 0, nil
}

func (m *memIntegrations) SaveToken(context.Context, *integrations.Token) error { return nil }

type noPayPal struct{}

func (noPayPal) GetSubscription(context.Context, string) (*paypal.Subscription, error) {
	return nil, paypal.ErrNotFound
}

func (noPayPal) GetOrder(context.Context, string) (*paypal.Order, error) {
	return nil, paypal.ErrNotFound
}

func (noPayPal) VerifyWebhookSignature(context.Context, string, paypal.WebhookHeaders, []byte) (bool, error) {
	return false, nil
}

type noLedger struct{}

func (noLedger) MarkProcessed(context.Context, string, string) (bool, error) { return true, nil }
func (noLedger) Forget(context.Context, string) error                        { return nil }

func setup(t *testing.T) (*gin.Engine, *memUsers, *memIntegrations) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	us := &memUsers{rows: map[string]*users.User{
		adminID:  {ID: adminID, Email: "admin@example.com", Role: users.RoleAdmin, Plan: plans.KeyAgency},
		memberID: {ID: memberID, Email: "member@example.com", Role: users.RoleUser, Plan: plans.KeyFree},
	}}
	ints := &memIntegrations{}

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config: config.Config{
			SiteURL:           "https://app.example.com",
			GoogleClientID:    "client-1",
			SupabaseJWTSecret: jwtSecret,
			PayPal:            config.PayPal{WebhookID: "WH-1"},
		},
		Log:          logging.Discard(),
		Users:        us,
		Integrations: ints,
		Webhooks:     noLedger{},
		PayPal:       noPayPal{},
		Catalog:      plans.NewCatalog(nil),
		Events:       analytics.NewBuffer(10),
	})
	return r, us, ints
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(jwtSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + s
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _, _ := setup(t)
	req, _ := http.NewRequest("GET", "/health", nil)
	if w := serve(r, req); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("Unexpected health response %d %s", w.Code, w.Body.String())
	}
}

func TestAuthorizeRoutes(t *testing.T) {
	r, _, _ := setup(t)
	for _, p := range []string{"ga", "gsc", "google"} {
		req, _ := http.NewRequest("GET", "/api/"+p+"/authorize", nil)
		w := serve(r, req)
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Missing userId") {
			t.Errorf("%s: expected 400 Missing userId, got %d %s", p, w.Code, w.Body.String())
		}

		req, _ = http.NewRequest("GET", "/api/"+p+"/authorize?userId="+memberID, nil)
		w = serve(r, req)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "state="+memberID) {
			t.Errorf("%s: expected authUrl with state, got %d %s", p, w.Code, w.Body.String())
		}
	}
}

func TestDataRoutesRequireUserHeader(t *testing.T) {
	r, _, ints := setup(t)

	req, _ := http.NewRequest("GET", "/api/data/pagespeed", nil)
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}

	req, _ = http.NewRequest("GET", "/api/data/gsc?page=2", nil)
	req.Header.Set("x-user-id", memberID)
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ints.userID != memberID {
		t.Errorf("Expected store to see %s, got %q", memberID, ints.userID)
	}
}

func TestEncryptWithoutKeyIs500(t *testing.T) {
	r, _, _ := setup(t)
	req, _ := http.NewRequest("POST", "/api/encrypt", bytes.NewBufferString(`{"text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	if w := serve(r, req); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
}

func TestCreateUserIsSanitized(t *testing.T) {
	r, us, _ := setup(t)
	id := "33333333-3333-4333-8333-333333333333"
	body := `{"id":"` + id + `","email":"new@example.com","fullName":"<b>New</b> User"}`
	req, _ := http.NewRequest("POST", "/api/users/create", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if w := serve(r, req); w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := us.rows[id].FullName; got == nil || *got != "New User" {
		t.Errorf("Expected markup stripped, got %v", got)
	}
}

func TestActivateUnverifiedIs402(t *testing.T) {
	r, us, _ := setup(t)
	body := `{"userId":"` + memberID + `","plan":"pro","subscriptionId":"I-FAKE"}`
	req, _ := http.NewRequest("POST", "/api/paypal/activate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if w := serve(r, req); w.Code != http.StatusPaymentRequired {
		t.Errorf("Expected 402, got %d", w.Code)
	}
	if us.rows[memberID].Plan != plans.KeyFree {
		t.Error("Plan must not change without PayPal confirmation")
	}
}

func TestAdminRoutes(t *testing.T) {
	r, _, _ := setup(t)

	req, _ := http.NewRequest("GET", "/api/admin/users", nil)
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Errorf("No token: expected 401, got %d", w.Code)
	}

	req, _ = http.NewRequest("GET", "/api/admin/users", nil)
	req.Header.Set("Authorization", bearer(t, memberID))
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Errorf("Member: expected 403, got %d", w.Code)
	}

	req, _ = http.NewRequest("GET", "/api/admin/users?page=1", nil)
	req.Header.Set("Authorization", bearer(t, adminID))
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Admin: expected 200, got %d", w.Code)
	}
	var env struct {
		TotalCount int64 `json:"totalCount"`
		TotalPages int   `json:"totalPages"`
	}
	json.Unmarshal(w.Body.Bytes(), &env)
	if env.TotalCount != 2 || env.TotalPages != 1 {
		t.Errorf("Unexpected envelope %+v", env)
	}
}

func TestMeRequiresToken(t *testing.T) {
	r, _, _ := setup(t)

	req, _ := http.NewRequest("GET", "/api/users/me", nil)
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}

	req, _ = http.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", bearer(t, memberID))
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}
