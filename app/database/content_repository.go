package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// contentRepository handles database operations for content records
type contentRepository struct {
	db *DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *DB) ContentRepository {
	return &contentRepository{db: db}
}

const contentColumns = `id, campaign_id, keyword, title, body, slug, meta_description,
       schema_markup, social_snippet, images, platforms, status, scheduled_at,
       due_now, live_url, published_at, error_detail, created_at, updated_at`

func (r *contentRepository) Create(ctx context.Context, rec *ContentRecord) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	platforms, err := encodeStrings(rec.Platforms)
	if err != nil {
		return "", err
	}

	images := rec.Images
	if images == "" {
		images = "[]"
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO content (
			id, campaign_id, keyword, title, body, slug, meta_description,
			schema_markup, social_snippet, images, platforms, status,
			scheduled_at, due_now, live_url, published_at, error_detail,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, rec.CampaignID, rec.Keyword, rec.Title, rec.Body, rec.Slug,
		rec.MetaDescription, rec.SchemaMarkup, rec.SocialSnippet, images,
		platforms, rec.Status, encodeNullableTime(rec.ScheduledAt), rec.DueNow,
		rec.LiveURL, encodeNullableTime(rec.PublishedAt), rec.ErrorDetail,
		encodeTime(now), encodeTime(now))
	if err != nil {
		return "", fmt.Errorf("failed to create content record: %w", err)
	}

	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return id, nil
}

func (r *contentRepository) scan(row interface{ Scan(...any) error }) (*ContentRecord, error) {
	var rec ContentRecord
	var platforms, createdAt, updatedAt string
	var scheduledAt, publishedAt sql.NullString

	err := row.Scan(&rec.ID, &rec.CampaignID, &rec.Keyword, &rec.Title, &rec.Body,
		&rec.Slug, &rec.MetaDescription, &rec.SchemaMarkup, &rec.SocialSnippet,
		&rec.Images, &platforms, &rec.Status, &scheduledAt, &rec.DueNow,
		&rec.LiveURL, &publishedAt, &rec.ErrorDetail, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if rec.Platforms, err = decodeStrings(platforms); err != nil {
		return nil, err
	}
	if rec.ScheduledAt, err = decodeNullableTime(scheduledAt); err != nil {
		return nil, err
	}
	if rec.PublishedAt, err = decodeNullableTime(publishedAt); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*ContentRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE id = ?
	`, id)

	rec, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content record by ID: %w", err)
	}
	return rec, nil
}

func (r *contentRepository) ListByStatus(ctx context.Context, status string, limit int) ([]ContentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE status = ?
		ORDER BY COALESCE(scheduled_at, created_at)
		LIMIT ?
	`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list content by status: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *contentRepository) ListDue(ctx context.Context, status string, cutoff time.Time) ([]ContentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE status = ?
		  AND scheduled_at IS NOT NULL
		  AND scheduled_at <= ?
		ORDER BY scheduled_at
	`, status, encodeTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to list due content: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *contentRepository) collect(rows *sql.Rows) ([]ContentRecord, error) {
	var records []ContentRecord
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content rows: %w", err)
	}
	return records, nil
}

// UpdateStatus performs the guarded compare-and-set that backs every workflow
// transition. The WHERE clause on the current status makes the
// read-modify-write atomic per record: a second scan racing on the same
// record affects zero rows and reports false.
func (r *contentRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, dueNow bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE content
		SET status = ?, due_now = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, toStatus, dueNow, encodeTime(time.Now().UTC()), id, fromStatus)
	if err != nil {
		return false, fmt.Errorf("failed to update content status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *contentRepository) MarkPublished(ctx context.Context, id, liveURL string, publishedAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE content
		SET status = 'Published', due_now = 0, live_url = ?, published_at = ?, updated_at = ?
		WHERE id = ? AND status = 'Publishing'
	`, liveURL, encodeTime(publishedAt), encodeTime(time.Now().UTC()), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark content published: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *contentRepository) MarkFailed(ctx context.Context, id, errorDetail string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE content
		SET status = 'Failed', due_now = 0, error_detail = ?, updated_at = ?
		WHERE id = ? AND status = 'Publishing'
	`, errorDetail, encodeTime(time.Now().UTC()), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark content failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *contentRepository) UpdateSchedule(ctx context.Context, id string, scheduledAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE content
		SET scheduled_at = ?, updated_at = ?
		WHERE id = ?
	`, encodeTime(scheduledAt), encodeTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("failed to update content schedule: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *contentRepository) CountByStatus(ctx context.Context, campaignID, status string) (int, error) {
	var count int
	var err error
	if campaignID == "" {
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM content WHERE status = ?", status).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM content WHERE campaign_id = ? AND status = ?",
			campaignID, status).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count content by status: %w", err)
	}
	return count, nil
}

// CountNotPublished counts records that are still in flight for a campaign,
// i.e. everything except the Published terminal status. Failed records count
// as in flight: they remain visible for operator retry.
func (r *contentRepository) CountNotPublished(ctx context.Context, campaignID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM content
		WHERE campaign_id = ? AND status != 'Published'
	`, campaignID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unpublished content: %w", err)
	}
	return count, nil
}

func (r *contentRepository) CountPublishedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM content
		WHERE status = 'Published' AND published_at >= ?
	`, encodeTime(since)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count published content: %w", err)
	}
	return count, nil
}

// ScheduledTimes returns the scheduled instants already taken by a campaign's
// records, ascending. Used to place new records into free slots.
func (r *contentRepository) ScheduledTimes(ctx context.Context, campaignID string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT scheduled_at FROM content
		WHERE campaign_id = ? AND scheduled_at IS NOT NULL
		ORDER BY scheduled_at
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled times: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled time: %w", err)
		}
		t, err := decodeTime(s)
		if err != nil {
			return nil, err
		}
		times = append(times, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled times: %w", err)
	}
	return times, nil
}
