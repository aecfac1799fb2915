package pipe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seopilot/seopilot/app/errs"
)

func TestNotifyPayload(t *testing.T) {
	var received map[string]string
	var gotUserAgent, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, server.Client(), "SEO Pilot/1.0")
	if err := n.Notify(context.Background()); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if received["action"] != "publish" {
		t.Errorf("Expected action=publish, got %q", received["action"])
	}
	if _, err := time.Parse(time.RFC3339, received["timestamp"]); err != nil {
		t.Errorf("Timestamp not RFC3339: %q", received["timestamp"])
	}
	if len(received) != 2 {
		t.Errorf("Payload must carry only action and timestamp, got %v", received)
	}
	if gotUserAgent != "SEO Pilot/1.0" {
		t.Errorf("Unexpected user agent: %q", gotUserAgent)
	}
	if gotContentType != "application/json" {
		t.Errorf("Unexpected content type: %q", gotContentType)
	}
}

func TestNotifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, server.Client(), "SEO Pilot/1.0")
	err := n.Notify(context.Background())
	if err == nil {
		t.Fatal("Expected error on 502 response")
	}
	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Errorf("Expected ExternalServiceError, got %v", err)
	}
}

func TestNotifyUnreachable(t *testing.T) {
	n := NewNotifier("http://127.0.0.1:1/webhook", &http.Client{Timeout: time.Second}, "SEO Pilot/1.0")
	if err := n.Notify(context.Background()); err == nil {
		t.Fatal("Expected error for unreachable webhook")
	}
}
