package content

import (
	"context"
	"fmt"
	"time"

	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/errs"
	"github.com/seopilot/seopilot/app/metrics"
)

// CreateParams carries everything needed to create a content record.
type CreateParams struct {
	CampaignID      string
	Keyword         string
	Title           string
	Body            string
	Slug            string
	MetaDescription string
	SchemaMarkup    string
	SocialSnippet   string
	Images          []ImageMeta
	Platforms       []string
	ScheduledAt     time.Time
	// AutoApprove creates the record directly in Approved, skipping manual
	// review. Set from the campaign's auto-approve flag.
	AutoApprove bool
}

// Lifecycle owns all status transitions of content records. Every transition
// is a guarded compare-and-set in the store; a failed guard surfaces as an
// InvalidTransitionError and never mutates the record.
type Lifecycle struct {
	repo database.ContentRepository
}

// NewLifecycle creates a lifecycle service over the content repository.
func NewLifecycle(repo database.ContentRepository) *Lifecycle {
	return &Lifecycle{repo: repo}
}

// Create stores a new record in the workflow's initial state.
func (l *Lifecycle) Create(ctx context.Context, p CreateParams) (*database.ContentRecord, error) {
	images, err := EncodeImages(p.Images)
	if err != nil {
		return nil, err
	}

	status := StatusPending
	if p.AutoApprove {
		status = StatusApproved
	}

	scheduledAt := p.ScheduledAt
	rec := &database.ContentRecord{
		CampaignID:      p.CampaignID,
		Keyword:         p.Keyword,
		Title:           p.Title,
		Body:            p.Body,
		Slug:            p.Slug,
		MetaDescription: p.MetaDescription,
		SchemaMarkup:    p.SchemaMarkup,
		SocialSnippet:   p.SocialSnippet,
		Images:          images,
		Platforms:       p.Platforms,
		Status:          status.String(),
		ScheduledAt:     &scheduledAt,
	}

	if _, err := l.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Approve moves a record from Pending to Approved. Also accepts Failed
// records: re-approving is the operator's explicit retry path.
func (l *Lifecycle) Approve(ctx context.Context, id string) error {
	rec, err := l.get(ctx, id)
	if err != nil {
		return err
	}

	from, err := ParseStatus(rec.Status)
	if err != nil {
		return err
	}
	if !from.CanTransition(StatusApproved) {
		return errs.NewInvalidTransition(id, rec.Status, StatusApproved.String())
	}

	return l.transition(ctx, id, from, StatusApproved, false)
}

// MarkPublishing moves a record from Approved to Publishing and raises the
// due-now flag, the signal the distribution pipe picks up.
func (l *Lifecycle) MarkPublishing(ctx context.Context, id string) error {
	rec, err := l.get(ctx, id)
	if err != nil {
		return err
	}
	return l.transition(ctx, id, statusOf(rec), StatusPublishing, true)
}

// Reconcile writes the terminal outcome reported by the distribution pipe.
// Only records in Publishing may be reconciled: an out-of-order report is an
// InvalidTransitionError and leaves the record untouched.
func (l *Lifecycle) Reconcile(ctx context.Context, id string, outcome Outcome) error {
	rec, err := l.get(ctx, id)
	if err != nil {
		return err
	}

	var ok bool
	var to Status
	if outcome.published {
		to = StatusPublished
		ok, err = l.repo.MarkPublished(ctx, id, outcome.liveURL, outcome.publishedAt)
	} else {
		to = StatusFailed
		ok, err = l.repo.MarkFailed(ctx, id, outcome.errorDetail)
	}
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewInvalidTransition(id, rec.Status, to.String())
	}
	metrics.CountFinalized(to.String())
	return nil
}

func (l *Lifecycle) get(ctx context.Context, id string) (*database.ContentRecord, error) {
	rec, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errs.NewNotFound("record", id)
	}
	return rec, nil
}

// transition performs the guarded status update. The store read above the
// CAS only shapes the error message; correctness rests on the guard alone.
func (l *Lifecycle) transition(ctx context.Context, id string, from, to Status, dueNow bool) error {
	if !from.CanTransition(to) {
		return errs.NewInvalidTransition(id, from.String(), to.String())
	}

	ok, err := l.repo.UpdateStatus(ctx, id, from.String(), to.String(), dueNow)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race with a concurrent scan: the record left `from`
		// between our read and the guarded write.
		return errs.NewInvalidTransition(id, from.String(), to.String())
	}
	return nil
}

func statusOf(rec *database.ContentRecord) Status {
	s, err := ParseStatus(rec.Status)
	if err != nil {
		// Unknown store value: surface as a status that allows nothing.
		return Status(-1)
	}
	return s
}

// Postpone moves a record's scheduled instant. Allowed only before the
// record enters Publishing.
func (l *Lifecycle) Postpone(ctx context.Context, id string, scheduledAt time.Time) error {
	rec, err := l.get(ctx, id)
	if err != nil {
		return err
	}

	s, err := ParseStatus(rec.Status)
	if err != nil {
		return err
	}
	if s != StatusPending && s != StatusApproved {
		return errs.NewInvalidState("record", id, rec.Status, "postpone")
	}

	if err := l.repo.UpdateSchedule(ctx, id, scheduledAt); err != nil {
		return fmt.Errorf("failed to postpone record %s: %w", id, err)
	}
	return nil
}
