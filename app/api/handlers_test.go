package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seopilot/seopilot/app/config"
	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/keyword"
)

const testAPIKey = "test-key"

type mockScheduler struct {
	triggered int
}

func (m *mockScheduler) Start() {}
func (m *mockScheduler) Stop()  {}
func (m *mockScheduler) TriggerGeneration(ctx context.Context) (int, error) {
	m.triggered++
	return 1, nil
}

type testEnv struct {
	server       *gin.Engine
	campaignRepo database.CampaignRepository
	lifecycle    *content.Lifecycle
	scheduler    *mockScheduler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := database.NewProvisioner(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("Failed to provision schema: %v", err)
	}

	campaignRepo := database.NewCampaignRepository(db)
	keywordRepo := database.NewKeywordRepository(db)
	contentRepo := database.NewContentRepository(db)
	pool := keyword.NewPool(keywordRepo)
	lifecycle := content.NewLifecycle(contentRepo)

	profiles, err := config.NewLoader("").LoadAll()
	if err != nil {
		t.Fatalf("Failed to load profiles: %v", err)
	}

	scheduler := &mockScheduler{}
	handler := NewHandler(campaignRepo, contentRepo, keywordRepo, pool, lifecycle,
		scheduler, profiles, "test")

	return &testEnv{
		server:       NewServer(handler, testAPIKey),
		campaignRepo: campaignRepo,
		lifecycle:    lifecycle,
		scheduler:    scheduler,
	}
}

func (e *testEnv) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)

	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var parsed map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return parsed
}

func (e *testEnv) seedRecord(t *testing.T, status string) string {
	t.Helper()

	campaignID, err := e.campaignRepo.Create(context.Background(), &database.Campaign{
		Name:        "Seed",
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Frequency:   1,
		PublishTime: "10:00",
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("Failed to seed campaign: %v", err)
	}

	rec, err := e.lifecycle.Create(context.Background(), content.CreateParams{
		CampaignID:  campaignID,
		Keyword:     "best hiking boots",
		Title:       "Best Hiking Boots",
		Body:        "<p>...</p>",
		ScheduledAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		AutoApprove: status != "Pending",
	})
	if err != nil {
		t.Fatalf("Failed to seed record: %v", err)
	}
	if status == "Publishing" {
		if err := e.lifecycle.MarkPublishing(context.Background(), rec.ID); err != nil {
			t.Fatalf("Failed to move record to Publishing: %v", err)
		}
	}
	return rec.ID
}

func TestHealthNoAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("OPTIONS", "/api/report", nil)
	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, req)

	if w.Code != 204 {
		t.Errorf("Expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Missing CORS origin header, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Error("Missing CORS allowed headers")
	}
}

func TestAPIRequiresKey(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/api/report", nil)
	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", w.Code)
	}
}

func TestCreateCampaign(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, "POST", "/api/campaigns", map[string]any{
		"name":       "Spring launch",
		"start_date": "2026-03-01",
		"end_date":   "2026-03-03",
		"frequency":  2,
		"channels":   []string{"website", "twitter"},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["id"] == "" || body["publish_time"] != "10:00" {
		t.Errorf("Unexpected response: %v", body)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	env := newTestEnv(t)

	// End before start
	w := env.request(t, "POST", "/api/campaigns", map[string]any{
		"name":       "Bad",
		"start_date": "2026-03-03",
		"end_date":   "2026-03-01",
		"frequency":  1,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("End before start: expected 400, got %d", w.Code)
	}

	// Unknown channel
	w = env.request(t, "POST", "/api/campaigns", map[string]any{
		"name":       "Bad",
		"start_date": "2026-03-01",
		"end_date":   "2026-03-03",
		"frequency":  1,
		"channels":   []string{"myspace"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Unknown channel: expected 400, got %d", w.Code)
	}
}

func TestStopCampaign(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, "POST", "/api/campaigns", map[string]any{
		"name":       "Spring launch",
		"start_date": "2026-03-01",
		"end_date":   "2026-03-03",
		"frequency":  1,
	})
	id := decodeBody(t, w)["id"].(string)

	w = env.request(t, "POST", "/api/campaigns/"+id+"/stop", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	w = env.request(t, "POST", "/api/campaigns/missing/stop", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing campaign, got %d", w.Code)
	}
}

func TestAddKeywords(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, "POST", "/api/keywords", map[string]any{
		"keywords": []string{"seo tips", "seo tips"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	if added := decodeBody(t, w)["added"].(float64); added != 2 {
		t.Errorf("Expected 2 added, got %v", added)
	}

	w = env.request(t, "POST", "/api/keywords", map[string]any{"keywords": []string{}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Empty list: expected 400, got %d", w.Code)
	}
}

func TestTriggerGeneration(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, "POST", "/api/generate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if env.scheduler.triggered != 1 {
		t.Errorf("Scheduler should have been triggered once, got %d", env.scheduler.triggered)
	}
}

func TestApproveRecord(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedRecord(t, "Pending")

	w := env.request(t, "POST", "/api/records/"+id+"/approve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Already approved: conflict
	w = env.request(t, "POST", "/api/records/"+id+"/approve", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 on double approve, got %d", w.Code)
	}

	w = env.request(t, "POST", "/api/records/missing/approve", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing record, got %d", w.Code)
	}
}

func TestPostponeRecord(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedRecord(t, "Pending")

	w := env.request(t, "POST", "/api/records/"+id+"/postpone", map[string]any{
		"scheduled_at": "2026-03-05T10:00:00Z",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = env.request(t, "POST", "/api/records/"+id+"/postpone", map[string]any{
		"scheduled_at": "not-a-time",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad timestamp, got %d", w.Code)
	}
}

func TestReconcileRecord(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedRecord(t, "Publishing")

	w := env.request(t, "POST", "/api/records/"+id+"/reconcile", map[string]any{
		"published": true,
		"live_url":  "https://example.com/best-hiking-boots",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if status := decodeBody(t, w)["status"]; status != "Published" {
		t.Errorf("Expected Published, got %v", status)
	}
}

func TestReconcileRequiresPublishing(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedRecord(t, "Pending")

	w := env.request(t, "POST", "/api/records/"+id+"/reconcile", map[string]any{
		"published": true,
		"live_url":  "https://example.com/x",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for an out-of-order report, got %d", w.Code)
	}
}

func TestReconcileFailedOutcome(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedRecord(t, "Publishing")

	// Failed outcome needs a detail
	w := env.request(t, "POST", "/api/records/"+id+"/reconcile", map[string]any{
		"published": false,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without error detail, got %d", w.Code)
	}

	w = env.request(t, "POST", "/api/records/"+id+"/reconcile", map[string]any{
		"published":    false,
		"error_detail": "upstream 500",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if status := decodeBody(t, w)["status"]; status != "Failed" {
		t.Errorf("Expected Failed, got %v", status)
	}
}

func TestReport(t *testing.T) {
	env := newTestEnv(t)
	env.seedRecord(t, "Pending")

	w := env.request(t, "GET", "/api/report", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	counts, ok := body["content"].(map[string]any)
	if !ok {
		t.Fatalf("Missing content counts: %v", body)
	}
	if counts["Pending"].(float64) != 1 {
		t.Errorf("Expected 1 pending record, got %v", counts["Pending"])
	}
}
