package database

import (
	"time"
)

// Campaign represents a campaign record in the backing store.
// Dates are day-granular; PublishTime is a "HH:MM" time-of-day.
type Campaign struct {
	ID          string
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Frequency   int
	PublishTime string
	WebsiteURL  string
	Channels    []string
	AutoApprove bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Keyword represents one entry in the keyword pool. Duplicate text is
// allowed; insertion order is the selection order.
type Keyword struct {
	ID        string
	Text      string
	Status    string // Available, Used, Deprecated
	CreatedAt time.Time
}

// ContentRecord represents one generated article moving through the publish
// workflow. Status holds the store's string form; the content package owns
// the typed state machine.
type ContentRecord struct {
	ID              string
	CampaignID      string
	Keyword         string
	Title           string
	Body            string
	Slug            string
	MetaDescription string
	SchemaMarkup    string // JSON-LD block, stored verbatim
	SocialSnippet   string
	Images          string // JSON array of image metadata entries
	Platforms       []string
	Status          string
	ScheduledAt     *time.Time
	DueNow          bool
	LiveURL         string
	PublishedAt     *time.Time
	ErrorDetail     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
