package database

import (
	"context"
	"time"
)

type CampaignRepository interface {
	Create(ctx context.Context, c *Campaign) (string, error)
	GetByID(ctx context.Context, id string) (*Campaign, error)
	GetActive(ctx context.Context) ([]Campaign, error)
	SetActive(ctx context.Context, id string, active bool) error
	DeactivateExpired(ctx context.Context, now time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}

type KeywordRepository interface {
	Add(ctx context.Context, texts []string) ([]Keyword, error)
	ListAvailable(ctx context.Context, limit int) ([]Keyword, error)
	GetByID(ctx context.Context, id string) (*Keyword, error)
	// UpdateStatus performs a guarded compare-and-set on the status field.
	// Returns false when the keyword was not in the expected status.
	UpdateStatus(ctx context.Context, id, from, to string) (bool, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	Count(ctx context.Context) (int, error)
}

type ContentRepository interface {
	Create(ctx context.Context, rec *ContentRecord) (string, error)
	GetByID(ctx context.Context, id string) (*ContentRecord, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]ContentRecord, error)
	// ListDue returns records in the given status whose scheduled time is at
	// or before the cutoff, oldest first.
	ListDue(ctx context.Context, status string, cutoff time.Time) ([]ContentRecord, error)
	// UpdateStatus performs a guarded compare-and-set of the status field and
	// the due-now flag. Returns false when the record was not in fromStatus;
	// in that case nothing was written.
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, dueNow bool) (bool, error)
	// MarkPublished records the terminal Published outcome. Guarded on
	// Publishing; clears the due-now flag.
	MarkPublished(ctx context.Context, id, liveURL string, publishedAt time.Time) (bool, error)
	// MarkFailed records the terminal Failed outcome. Guarded on Publishing;
	// clears the due-now flag.
	MarkFailed(ctx context.Context, id, errorDetail string) (bool, error)
	UpdateSchedule(ctx context.Context, id string, scheduledAt time.Time) error
	CountByStatus(ctx context.Context, campaignID, status string) (int, error)
	CountNotPublished(ctx context.Context, campaignID string) (int, error)
	CountPublishedSince(ctx context.Context, since time.Time) (int, error)
	ScheduledTimes(ctx context.Context, campaignID string) ([]time.Time, error)
}
