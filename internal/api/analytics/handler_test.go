package analyticsapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seo-dashboard/internal/domain/analytics"

	"github.com/gin-gonic/gin"
)

func track(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/api/analytics/track", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTrack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := analytics.NewBuffer(10)
	h := &Handler{Events: buf}
	r := gin.New()
	r.POST("/api/analytics/track", h.Track)

	w := track(r, `{"name":"keyword_added","properties":{"count":3}}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", w.Code)
	}

	events := buf.Events()
	if len(events) != 1 || events[0].Name != "keyword_added" {
		t.Fatalf("Unexpected events %+v", events)
	}
	if !strings.Contains(w.Body.String(), events[0].ID) {
		t.Errorf("Expected response to carry event id, got %s", w.Body.String())
	}
}

func TestTrackRejectsBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := analytics.NewBuffer(10)
	h := &Handler{Events: buf}
	r := gin.New()
	r.POST("/api/analytics/track", h.Track)

	for _, body := range []string{`{}`, `{"name":"   "}`, `{"name":"` + strings.Repeat("x", 101) + `"}`, `[`} {
		if w := track(r, body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("Expected nothing buffered, got %d", buf.Len())
	}
}
