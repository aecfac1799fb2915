package content

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/seopilot/seopilot/app/database"
)

// MockCampaignRepository returns a fixed set of active campaigns.
type MockCampaignRepository struct {
	campaigns []database.Campaign
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *database.Campaign) (string, error) {
	return "test-id", nil
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id string) (*database.Campaign, error) {
	for i := range m.campaigns {
		if m.campaigns[i].ID == id {
			return &m.campaigns[i], nil
		}
	}
	return nil, nil
}

func (m *MockCampaignRepository) GetActive(ctx context.Context) ([]database.Campaign, error) {
	return m.campaigns, nil
}

func (m *MockCampaignRepository) SetActive(ctx context.Context, id string, active bool) error {
	return nil
}

func (m *MockCampaignRepository) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

func (m *MockCampaignRepository) Count(ctx context.Context) (int, error) {
	return len(m.campaigns), nil
}

type MockNotifier struct {
	calls int
	err   error
}

func (m *MockNotifier) Notify(ctx context.Context) error {
	m.calls++
	return m.err
}

type MockAnnouncer struct {
	messages []string
}

func (m *MockAnnouncer) Announce(message string) {
	m.messages = append(m.messages, message)
}

func seedApproved(t *testing.T, repo *MockContentRepository, scheduledAt time.Time, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		at := scheduledAt
		repo.nextID++
		id := fmt.Sprintf("rec-%d", repo.nextID)
		repo.records[id] = &database.ContentRecord{
			ID:          id,
			CampaignID:  "c1",
			Status:      "Approved",
			ScheduledAt: &at,
		}
	}
}

func TestCheckAndTriggerFlipsDueRecords(t *testing.T) {
	repo := NewMockContentRepository()
	notifier := &MockNotifier{}
	lifecycle := NewLifecycle(repo)
	coord := NewCoordinator(repo, &MockCampaignRepository{}, lifecycle, notifier, nil, nil, 3*time.Hour)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedApproved(t, repo, now.Add(-time.Minute), 3)
	seedApproved(t, repo, now.Add(time.Hour), 2) // not due yet

	triggered, err := coord.CheckAndTrigger(context.Background(), now)
	if err != nil {
		t.Fatalf("CheckAndTrigger failed: %v", err)
	}
	if len(triggered) != 3 {
		t.Fatalf("Expected 3 triggered records, got %d", len(triggered))
	}
	if notifier.calls != 1 {
		t.Errorf("Expected exactly one pipe notification, got %d", notifier.calls)
	}

	for _, id := range triggered {
		rec, _ := repo.GetByID(context.Background(), id)
		if rec.Status != "Publishing" || !rec.DueNow {
			t.Errorf("Record %s: expected Publishing with due flag, got %s due=%v", id, rec.Status, rec.DueNow)
		}
	}
}

func TestCheckAndTriggerSecondScanIsNoop(t *testing.T) {
	repo := NewMockContentRepository()
	notifier := &MockNotifier{}
	lifecycle := NewLifecycle(repo)
	coord := NewCoordinator(repo, &MockCampaignRepository{}, lifecycle, notifier, nil, nil, 3*time.Hour)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedApproved(t, repo, now.Add(-time.Minute), 2)

	first, err := coord.CheckAndTrigger(context.Background(), now)
	if err != nil {
		t.Fatalf("First scan failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("Expected 2 triggered on first scan, got %d", len(first))
	}

	second, err := coord.CheckAndTrigger(context.Background(), now.Add(time.Second))
	if err != nil {
		t.Fatalf("Second scan failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Second scan must trigger nothing, got %d", len(second))
	}
	if notifier.calls != 1 {
		t.Errorf("Pipe must be notified once, got %d calls", notifier.calls)
	}
}

func TestCheckAndTriggerNotifierFailureIsNotFatal(t *testing.T) {
	repo := NewMockContentRepository()
	notifier := &MockNotifier{err: fmt.Errorf("webhook down")}
	lifecycle := NewLifecycle(repo)
	coord := NewCoordinator(repo, &MockCampaignRepository{}, lifecycle, notifier, nil, nil, 3*time.Hour)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedApproved(t, repo, now.Add(-time.Minute), 1)

	triggered, err := coord.CheckAndTrigger(context.Background(), now)
	if err != nil {
		t.Fatalf("Scan must not fail on notifier error: %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("Expected 1 triggered record, got %d", len(triggered))
	}

	// Records stay Publishing: the pipe polls the store on its own.
	rec, _ := repo.GetByID(context.Background(), triggered[0])
	if rec.Status != "Publishing" {
		t.Errorf("Expected Publishing despite webhook failure, got %s", rec.Status)
	}
}

type MockDirectPublisher struct {
	liveURL string
	err     error
	urls    []string
}

func (m *MockDirectPublisher) Publish(ctx context.Context, record *database.ContentRecord, websiteURL string) (string, error) {
	m.urls = append(m.urls, websiteURL)
	if m.err != nil {
		return "", m.err
	}
	return m.liveURL, nil
}

func TestCheckAndTriggerPublishesDirectly(t *testing.T) {
	repo := NewMockContentRepository()
	notifier := &MockNotifier{}
	publisher := &MockDirectPublisher{liveURL: "https://example.com/best-hiking-boots"}
	lifecycle := NewLifecycle(repo)
	campaignRepo := &MockCampaignRepository{campaigns: []database.Campaign{{
		ID:         "c1",
		Name:       "Spring launch",
		WebsiteURL: "https://example.com/api",
	}}}
	coord := NewCoordinator(repo, campaignRepo, lifecycle, notifier, publisher, nil, 3*time.Hour)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedApproved(t, repo, now.Add(-time.Minute), 2)

	triggered, err := coord.CheckAndTrigger(context.Background(), now)
	if err != nil {
		t.Fatalf("CheckAndTrigger failed: %v", err)
	}
	if len(triggered) != 2 {
		t.Fatalf("Expected 2 triggered records, got %d", len(triggered))
	}
	if len(publisher.urls) != 2 || publisher.urls[0] != "https://example.com/api" {
		t.Errorf("Publisher should receive the campaign website URL, got %v", publisher.urls)
	}
	if notifier.calls != 0 {
		t.Errorf("Pipe must not be notified when everything published directly, got %d calls", notifier.calls)
	}

	for _, id := range triggered {
		rec, _ := repo.GetByID(context.Background(), id)
		if rec.Status != "Published" {
			t.Errorf("Record %s: expected Published, got %s", id, rec.Status)
		}
		if rec.LiveURL != "https://example.com/best-hiking-boots" {
			t.Errorf("Record %s: live URL not stored, got %q", id, rec.LiveURL)
		}
		if rec.PublishedAt == nil || !rec.PublishedAt.Equal(now) {
			t.Errorf("Record %s: published timestamp not stored: %v", id, rec.PublishedAt)
		}
	}
}

func TestCheckAndTriggerDirectPublishFailureIsRecorded(t *testing.T) {
	repo := NewMockContentRepository()
	publisher := &MockDirectPublisher{err: fmt.Errorf("upstream 500")}
	lifecycle := NewLifecycle(repo)
	campaignRepo := &MockCampaignRepository{campaigns: []database.Campaign{{
		ID:         "c1",
		Name:       "Spring launch",
		WebsiteURL: "https://example.com/api",
	}}}
	coord := NewCoordinator(repo, campaignRepo, lifecycle, nil, publisher, nil, 3*time.Hour)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedApproved(t, repo, now.Add(-time.Minute), 1)

	triggered, err := coord.CheckAndTrigger(context.Background(), now)
	if err != nil {
		t.Fatalf("Scan must not fail on a publish error: %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("Expected 1 triggered record, got %d", len(triggered))
	}

	rec, _ := repo.GetByID(context.Background(), triggered[0])
	if rec.Status != "Failed" {
		t.Errorf("Expected Failed after publish error, got %s", rec.Status)
	}
	if rec.ErrorDetail != "upstream 500" {
		t.Errorf("Error detail not stored, got %q", rec.ErrorDetail)
	}
	if rec.LiveURL != "" || rec.PublishedAt != nil {
		t.Errorf("Failed record must not carry publish fields: url=%q at=%v", rec.LiveURL, rec.PublishedAt)
	}
}

func TestCheckAndTriggerWithoutWebsiteURLUsesPipe(t *testing.T) {
	repo := NewMockContentRepository()
	notifier := &MockNotifier{}
	publisher := &MockDirectPublisher{liveURL: "https://example.com/x"}
	lifecycle := NewLifecycle(repo)
	campaignRepo := &MockCampaignRepository{campaigns: []database.Campaign{{
		ID:   "c1",
		Name: "Spring launch",
	}}}
	coord := NewCoordinator(repo, campaignRepo, lifecycle, notifier, publisher, nil, 3*time.Hour)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedApproved(t, repo, now.Add(-time.Minute), 1)

	triggered, err := coord.CheckAndTrigger(context.Background(), now)
	if err != nil {
		t.Fatalf("CheckAndTrigger failed: %v", err)
	}
	if len(publisher.urls) != 0 {
		t.Errorf("Publisher must not run without a website URL, got %v", publisher.urls)
	}
	if notifier.calls != 1 {
		t.Errorf("Pipe should be notified for records it owns, got %d calls", notifier.calls)
	}

	rec, _ := repo.GetByID(context.Background(), triggered[0])
	if rec.Status != "Publishing" || !rec.DueNow {
		t.Errorf("Expected Publishing with due flag for the pipe, got %s due=%v", rec.Status, rec.DueNow)
	}
}

func TestRemindWithinWindow(t *testing.T) {
	repo := NewMockContentRepository()
	announcer := &MockAnnouncer{}
	lifecycle := NewLifecycle(repo)
	campaignRepo := &MockCampaignRepository{campaigns: []database.Campaign{{
		ID:          "c1",
		Name:        "Spring launch",
		PublishTime: "10:00",
	}}}
	coord := NewCoordinator(repo, campaignRepo, lifecycle, nil, nil, announcer, 3*time.Hour)

	scheduled := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.records["p1"] = &database.ContentRecord{
		ID: "p1", CampaignID: "c1", Status: "Pending", ScheduledAt: &scheduled,
	}

	// Inside the lead window
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := coord.Remind(context.Background(), now); err != nil {
		t.Fatalf("Remind failed: %v", err)
	}
	if len(announcer.messages) != 1 {
		t.Fatalf("Expected one reminder, got %d", len(announcer.messages))
	}

	// Same day again: deduplicated
	if err := coord.Remind(context.Background(), now.Add(30*time.Minute)); err != nil {
		t.Fatalf("Remind failed: %v", err)
	}
	if len(announcer.messages) != 1 {
		t.Errorf("Reminder must fire once per day, got %d", len(announcer.messages))
	}
}

func TestRemindOutsideWindow(t *testing.T) {
	repo := NewMockContentRepository()
	announcer := &MockAnnouncer{}
	lifecycle := NewLifecycle(repo)
	campaignRepo := &MockCampaignRepository{campaigns: []database.Campaign{{
		ID:          "c1",
		Name:        "Spring launch",
		PublishTime: "10:00",
	}}}
	coord := NewCoordinator(repo, campaignRepo, lifecycle, nil, nil, announcer, 3*time.Hour)

	scheduled := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.records["p1"] = &database.ContentRecord{
		ID: "p1", CampaignID: "c1", Status: "Pending", ScheduledAt: &scheduled,
	}

	// Too early
	if err := coord.Remind(context.Background(), time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Remind failed: %v", err)
	}
	// Past publish time
	if err := coord.Remind(context.Background(), time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Remind failed: %v", err)
	}
	if len(announcer.messages) != 0 {
		t.Errorf("Expected no reminders outside the window, got %d", len(announcer.messages))
	}
}

func TestRemindSkipsWhenNothingPending(t *testing.T) {
	repo := NewMockContentRepository()
	announcer := &MockAnnouncer{}
	lifecycle := NewLifecycle(repo)
	campaignRepo := &MockCampaignRepository{campaigns: []database.Campaign{{
		ID:          "c1",
		Name:        "Spring launch",
		PublishTime: "10:00",
	}}}
	coord := NewCoordinator(repo, campaignRepo, lifecycle, nil, nil, announcer, 3*time.Hour)

	if err := coord.Remind(context.Background(), time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Remind failed: %v", err)
	}
	if len(announcer.messages) != 0 {
		t.Errorf("Expected no reminder with an empty queue, got %d", len(announcer.messages))
	}
}
