package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"seo-dashboard/pkg/pagination"
)

func TestAuthorize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gsc/authorize" || r.URL.Query().Get("userId") != "u1" {
			t.Errorf("Unexpected request %s", r.URL)
		}
		json.NewEncoder(w).Encode(map[string]string{"authUrl": "https://accounts.google.com/o/oauth2/auth?state=u1"})
	}))
	defer srv.Close()

	got, err := New(srv.URL+"/", nil).Authorize(context.Background(), "gsc", "u1")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if got != "https://accounts.google.com/o/oauth2/auth?state=u1" {
		t.Errorf("Unexpected auth url %q", got)
	}
}

func TestAuthorizeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Missing userId"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Authorize(context.Background(), "ga", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Missing userId" {
		t.Errorf("Unexpected error %+v", apiErr)
	}
}

func TestFetchData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/data/pagespeed" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get(UserIDHeader) != "u1" {
			t.Errorf("Missing user header")
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(pagination.NewEnvelope([]json.RawMessage{json.RawMessage(`{"score":97}`)}, 250, page, 100))
	}))
	defer srv.Close()

	p, err := New(srv.URL, nil).FetchData(context.Background(), "pagespeed", "u1", 2)
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if p.CurrentPage != 2 || p.TotalPages != 3 || p.TotalCount != 250 {
		t.Errorf("Unexpected page %+v", p)
	}
	if len(p.Data) != 1 || string(p.Data[0]) != `{"score":97}` {
		t.Errorf("Unexpected data %s", p.Data)
	}
}

func TestFetchDataCollapsesConcurrentCalls(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		json.NewEncoder(w).Encode(pagination.NewEnvelope[json.RawMessage](nil, 0, 1, 100))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.FetchData(context.Background(), "ga", "u1", 1); err != nil {
				t.Errorf("FetchData: %v", err)
			}
		}()
	}

	// Let every goroutine join the in-flight call before answering.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("Expected 1 request, got %d", n)
	}
}

func TestFeedClampsPages(t *testing.T) {
	var requested []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		requested = append(requested, page)
		json.NewEncoder(w).Encode(pagination.NewEnvelope[json.RawMessage](nil, 150, page, 100))
	}))
	defer srv.Close()

	ctx := context.Background()
	f := New(srv.URL, nil).Feed("gsc", "u1")

	if _, err := f.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Pager().TotalPages() != 2 {
		t.Fatalf("Expected 2 pages, got %d", f.Pager().TotalPages())
	}

	if _, moved, err := f.Next(ctx); !moved || err != nil {
		t.Fatalf("Next: moved=%v err=%v", moved, err)
	}
	if _, moved, _ := f.Next(ctx); moved {
		t.Error("Next past the last page should not move")
	}
	if _, moved, _ := f.GoTo(ctx, 0); moved {
		t.Error("GoTo(0) should not move")
	}
	if f.Pager().CurrentPage() != 2 {
		t.Errorf("Expected page 2, got %d", f.Pager().CurrentPage())
	}

	if len(requested) != 2 || requested[0] != 1 || requested[1] != 2 {
		t.Errorf("Unexpected requests %v", requested)
	}
}
