package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/seopilot/seopilot/app/campaign"
	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/errs"
)

// PipeNotifier signals the distribution pipe that approved records are due.
// One-way: the response carries no delivery outcome, only the later
// reconcile call does.
type PipeNotifier interface {
	Notify(ctx context.Context) error
}

// DirectPublisher posts a record's article straight to a campaign's website
// API and returns the live URL. Used instead of the webhook pipe for
// campaigns that carry a website URL.
type DirectPublisher interface {
	Publish(ctx context.Context, record *database.ContentRecord, websiteURL string) (string, error)
}

// Announcer delivers operator-facing notifications (reminders, summaries).
type Announcer interface {
	Announce(message string)
}

// Coordinator flips due records to Publishing at their scheduled instant and
// emits pre-publish reminders. It keeps no authoritative state: every scan
// re-reads the store, so a restart loses nothing.
type Coordinator struct {
	repo         database.ContentRepository
	campaignRepo database.CampaignRepository
	lifecycle    *Lifecycle
	pipe         PipeNotifier
	publisher    DirectPublisher
	announcer    Announcer
	reminderLead time.Duration
	// reminderSent dedupes the once-per-day reminder per campaign. Losing it
	// on restart means at worst one extra reminder, which is acceptable for a
	// read-only event.
	reminderSent map[string]string
}

// NewCoordinator creates a publish trigger coordinator. pipe may be nil when
// no distribution webhook is configured; triggering then only flips the flag
// for a pipe that polls the store itself. publisher may be nil when no
// website credential is configured; campaigns with a website URL then go
// through the pipe like everything else.
func NewCoordinator(repo database.ContentRepository, campaignRepo database.CampaignRepository,
	lifecycle *Lifecycle, pipe PipeNotifier, publisher DirectPublisher,
	announcer Announcer, reminderLead time.Duration) *Coordinator {
	return &Coordinator{
		repo:         repo,
		campaignRepo: campaignRepo,
		lifecycle:    lifecycle,
		pipe:         pipe,
		publisher:    publisher,
		announcer:    announcer,
		reminderLead: reminderLead,
		reminderSent: make(map[string]string),
	}
}

// CheckAndTrigger transitions every Approved record whose scheduled instant
// has passed to Publishing and notifies the pipe once per scan. A record is
// never triggered twice: only Approved records qualify, and the transition
// itself removes them from the next scan.
func (c *Coordinator) CheckAndTrigger(ctx context.Context, now time.Time) ([]string, error) {
	due, err := c.repo.ListDue(ctx, StatusApproved.String(), now)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for due records: %w", err)
	}

	var triggered []string
	awaitingPipe := 0
	campaigns := map[string]*database.Campaign{}
	for i := range due {
		rec := &due[i]
		if err := c.lifecycle.MarkPublishing(ctx, rec.ID); err != nil {
			if errs.IsInvalidTransition(err) {
				// Another scan got there first; skip without failing the pass.
				slog.Debug("Record already triggered by a concurrent scan", "record", rec.ID)
				continue
			}
			slog.Error("Failed to trigger record", "record", rec.ID, "error", err)
			continue
		}
		triggered = append(triggered, rec.ID)

		if c.publisher == nil {
			awaitingPipe++
			continue
		}
		camp, ok := campaigns[rec.CampaignID]
		if !ok {
			loaded, err := c.campaignRepo.GetByID(ctx, rec.CampaignID)
			if err != nil {
				slog.Error("Failed to load campaign for direct publish", "campaign", rec.CampaignID, "error", err)
			}
			camp = loaded
			campaigns[rec.CampaignID] = camp
		}
		if camp == nil || camp.WebsiteURL == "" {
			awaitingPipe++
			continue
		}
		c.publishDirect(ctx, rec, camp.WebsiteURL, now)
	}

	if awaitingPipe > 0 && c.pipe != nil {
		// Fire-and-forget: delivery outcome arrives via reconcile, never here.
		if err := c.pipe.Notify(ctx); err != nil {
			slog.Warn("Distribution pipe notification failed", "error", err, "triggered", awaitingPipe)
		}
	}

	return triggered, nil
}

// publishDirect pushes one record to the campaign's website and reconciles
// the outcome immediately, standing in for the external pipe. A publish
// failure lands the record in Failed with the error detail, leaving it
// visible for an operator retry.
func (c *Coordinator) publishDirect(ctx context.Context, rec *database.ContentRecord, websiteURL string, now time.Time) {
	liveURL, err := c.publisher.Publish(ctx, rec, websiteURL)
	if err != nil {
		slog.Error("Direct website publish failed", "record", rec.ID, "error", err)
		if rerr := c.lifecycle.Reconcile(ctx, rec.ID, FailedOutcome(err.Error())); rerr != nil {
			slog.Error("Failed to record publish failure", "record", rec.ID, "error", rerr)
		}
		return
	}

	if err := c.lifecycle.Reconcile(ctx, rec.ID, PublishedOutcome(liveURL, now)); err != nil {
		slog.Error("Failed to record publish outcome", "record", rec.ID, "error", err)
		return
	}
	slog.Info("Record published to website", "record", rec.ID, "url", liveURL)
}

// Remind emits a read-only summary of records awaiting approval at the
// configured lead time before each active campaign's publish time. Mutates
// nothing.
func (c *Coordinator) Remind(ctx context.Context, now time.Time) error {
	if c.announcer == nil {
		return nil
	}

	campaigns, err := c.campaignRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active campaigns: %w", err)
	}

	for i := range campaigns {
		camp := &campaigns[i]

		hour, minute, err := campaign.ParsePublishTime(camp.PublishTime)
		if err != nil {
			slog.Warn("Skipping reminder for campaign with invalid publish time",
				"campaign", camp.ID, "publish_time", camp.PublishTime)
			continue
		}

		publishAt := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		remindAt := publishAt.Add(-c.reminderLead)
		if now.Before(remindAt) || !now.Before(publishAt) {
			continue
		}

		day := now.Format("2006-01-02")
		if c.reminderSent[camp.ID] == day {
			continue
		}

		pending, err := c.repo.CountByStatus(ctx, camp.ID, StatusPending.String())
		if err != nil {
			return err
		}
		if pending == 0 {
			continue
		}
		approved, err := c.repo.CountByStatus(ctx, camp.ID, StatusApproved.String())
		if err != nil {
			return err
		}

		c.reminderSent[camp.ID] = day
		c.announcer.Announce(fmt.Sprintf(
			"publish reminder for %q: %d pending review, %d approved, publish at %s",
			camp.Name, pending, approved, camp.PublishTime))
	}

	return nil
}
