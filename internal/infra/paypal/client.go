package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	ErrNotConfigured = errors.New("paypal: credentials not configured")
	ErrNotFound      = errors.New("paypal: resource not found")
)

// APIError is a non-2xx answer from the PayPal REST API.
type APIError struct {
	Status  int
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("paypal: http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("paypal: http %d: %s: %s", e.Status, e.Name, e.Message)
}

type Config struct {
	APIURL       string
	ClientID     string
	ClientSecret string
	AccessToken  string
}

type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

// NewClient authenticates with the OAuth2 client-credentials grant when a
// client id and secret are set, and falls back to a static access token.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.APIURL, "/")
	c := &Client{baseURL: base, tracer: otel.Tracer("seo-dashboard/paypal")}

	ctx := context.Background()
	switch {
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     base + "/v1/oauth2/token",
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		c.http = cc.Client(ctx)
	case cfg.AccessToken != "":
		c.http = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken}))
	default:
		return c
	}
	c.http.Timeout = 15 * time.Second
	return c
}

type Subscription struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PlanID     string `json:"plan_id"`
	CustomID   string `json:"custom_id"`
	Subscriber struct {
		EmailAddress string `json:"email_address"`
		PayerID      string `json:"payer_id"`
	} `json:"subscriber"`
}

// Money is PayPal's amount object. Value is a decimal string.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// Equal compares currency case-insensitively and value to the cent.
func (m Money) Equal(o Money) bool {
	if !strings.EqualFold(strings.TrimSpace(m.CurrencyCode), strings.TrimSpace(o.CurrencyCode)) {
		return false
	}
	a, okA := cents(m.Value)
	b, okB := cents(o.Value)
	return okA && okB && a == b
}

func cents(v string) (int64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Round(f * 100)), true
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Money  `json:"amount"`
}

type PurchaseUnit struct {
	ReferenceID string `json:"reference_id"`
	CustomID    string `json:"custom_id"`
	Amount      Money  `json:"amount"`
	Payments    struct {
		Captures []Capture `json:"captures"`
	} `json:"payments"`
}

type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// CustomID is the custom_id of the first purchase unit, if any.
func (o *Order) CustomID() string {
	if len(o.PurchaseUnits) == 0 {
		return ""
	}
	return o.PurchaseUnits[0].CustomID
}

// CapturedAmount is the amount of the first completed capture of the first
// purchase unit. An approved but uncaptured order has none.
func (o *Order) CapturedAmount() (Money, bool) {
	if len(o.PurchaseUnits) == 0 {
		return Money{}, false
	}
	for _, c := range o.PurchaseUnits[0].Payments.Captures {
		if strings.EqualFold(c.Status, "COMPLETED") {
			return c.Amount, true
		}
	}
	return Money{}, false
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	var sub Subscription
	if err := c.do(ctx, "GetSubscription", http.MethodGet, "/v1/billing/subscriptions/"+url.PathEscape(id), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.do(ctx, "GetOrder", http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// WebhookHeaders are the PAYPAL-* transmission headers of a webhook delivery.
type WebhookHeaders struct {
	TransmissionID   string
	TransmissionTime string
	TransmissionSig  string
	CertURL          string
	AuthAlgo         string
}

func WebhookHeadersFrom(h http.Header) WebhookHeaders {
	return WebhookHeaders{
		TransmissionID:   h.Get("Paypal-Transmission-Id"),
		TransmissionTime: h.Get("Paypal-Transmission-Time"),
		TransmissionSig:  h.Get("Paypal-Transmission-Sig"),
		CertURL:          h.Get("Paypal-Cert-Url"),
		AuthAlgo:         h.Get("Paypal-Auth-Algo"),
	}
}

// VerifyWebhookSignature asks PayPal whether body was signed for webhookID.
func (c *Client) VerifyWebhookSignature(ctx context.Context, webhookID string, h WebhookHeaders, body []byte) (bool, error) {
	if h.TransmissionID == "" || h.TransmissionSig == "" {
		return false, nil
	}
	req := struct {
		AuthAlgo         string          `json:"auth_algo"`
		CertURL          string          `json:"cert_url"`
		TransmissionID   string          `json:"transmission_id"`
		TransmissionSig  string          `json:"transmission_sig"`
		TransmissionTime string          `json:"transmission_time"`
		WebhookID        string          `json:"webhook_id"`
		WebhookEvent     json.RawMessage `json:"webhook_event"`
	}{
		AuthAlgo:         h.AuthAlgo,
		CertURL:          h.CertURL,
		TransmissionID:   h.TransmissionID,
		TransmissionSig:  h.TransmissionSig,
		TransmissionTime: h.TransmissionTime,
		WebhookID:        webhookID,
		WebhookEvent:     json.RawMessage(body),
	}

	var resp struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := c.do(ctx, "VerifyWebhookSignature", http.MethodPost, "/v1/notifications/verify-webhook-signature", req, &resp); err != nil {
		return false, err
	}
	return resp.VerificationStatus == "SUCCESS", nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	if c.http == nil {
		return ErrNotConfigured
	}

	ctx, span := c.tracer.Start(ctx, "paypal."+op, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("paypal.path", path),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("paypal: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paypal: %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("paypal: read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("paypal: decode %s: %w", op, err)
	}
	return nil
}
