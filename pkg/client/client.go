// Package client is the Go client of the dashboard API. It covers the two
// calls a dashboard page makes: starting a Google connection and reading
// pages of integration data.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"seo-dashboard/pkg/pagination"

	"golang.org/x/sync/singleflight"
)

// UserIDHeader carries the dashboard user on data requests.
const UserIDHeader = "x-user-id"

// APIError is a non-2xx answer carrying the server's {"error": ...} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("dashboard api: http %d", e.Status)
	}
	return fmt.Sprintf("dashboard api: http %d: %s", e.Status, e.Message)
}

// Page is one page of raw integration rows.
type Page = pagination.Envelope[json.RawMessage]

type Client struct {
	baseURL    string
	httpClient *http.Client
	group      singleflight.Group
}

// New returns a client for the API at baseURL. A nil httpClient gets a
// default one with a 15 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Authorize returns the Google consent URL that connects provider ("ga",
// "gsc" or "google") to userID. The caller redirects the browser to it.
func (c *Client) Authorize(ctx context.Context, provider, userID string) (string, error) {
	q := url.Values{}
	q.Set("userId", userID)
	endpoint := fmt.Sprintf("%s/api/%s/authorize?%s", c.baseURL, url.PathEscape(provider), q.Encode())

	var out struct {
		AuthURL string `json:"authUrl"`
	}
	if err := c.get(ctx, endpoint, nil, &out); err != nil {
		return "", err
	}
	if out.AuthURL == "" {
		return "", fmt.Errorf("dashboard api: empty authUrl for %s", provider)
	}
	return out.AuthURL, nil
}

// FetchData reads one page of kind ("ga", "gsc" or "pagespeed") for userID.
// Concurrent calls for the same kind, user and page share one request and
// receive the same Page value; callers must not modify its Data.
func (c *Client) FetchData(ctx context.Context, kind, userID string, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	key := kind + "\x00" + userID + "\x00" + strconv.Itoa(page)

	v, err, _ := c.group.Do(key, func() (any, error) {
		endpoint := fmt.Sprintf("%s/api/data/%s?page=%d", c.baseURL, url.PathEscape(kind), page)
		var p Page
		if err := c.get(ctx, endpoint, http.Header{UserIDHeader: {userID}}, &p); err != nil {
			return Page{}, err
		}
		return p, nil
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

func (c *Client) get(ctx context.Context, endpoint string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dashboard api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &msg) == nil {
			apiErr.Message = msg.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
