package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOpenJobsSSESnapshot(t *testing.T) {
	router, _ := newTestServer(t)
	createJob(t, router, ownerToken)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/open/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+workerToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "event: connected") {
		t.Errorf("missing connected event: %q", body)
	}
	if !strings.Contains(body, "event: jobs") {
		t.Errorf("missing initial jobs snapshot: %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestChatSSERequiresParticipation(t *testing.T) {
	router, _ := newTestServer(t)
	v := createJob(t, router, ownerToken)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+v.ID+"/chat/events", nil)
	req.Header.Set("Authorization", "Bearer "+worker2Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("outsider chat SSE: status %d, want 403", w.Code)
	}
}

func TestInboxSSESnapshot(t *testing.T) {
	router, _ := newTestServer(t)
	v := createJob(t, router, ownerToken)
	doJSON(t, router, http.MethodPost, "/api/jobs/"+v.ID+"/proposals", workerToken, map[string]any{"price": 60})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "event: inbox") {
		t.Errorf("missing inbox snapshot: %q", body)
	}
	if !strings.Contains(body, "proposed") {
		t.Errorf("snapshot missing the proposal notification: %q", body)
	}
}
