package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// campaignRepository handles database operations for campaigns
type campaignRepository struct {
	db *DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, c *Campaign) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	channels, err := encodeStrings(c.Channels)
	if err != nil {
		return "", err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO campaigns (
			id, name, start_date, end_date, frequency, publish_time,
			website_url, channels, auto_approve, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, c.Name, encodeDate(c.StartDate), encodeDate(c.EndDate), c.Frequency,
		c.PublishTime, c.WebsiteURL, channels, c.AutoApprove, c.IsActive,
		encodeTime(now), encodeTime(now))
	if err != nil {
		return "", fmt.Errorf("failed to create campaign: %w", err)
	}

	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return id, nil
}

const campaignColumns = `id, name, start_date, end_date, frequency, publish_time,
       website_url, channels, auto_approve, is_active, created_at, updated_at`

func (r *campaignRepository) scan(row interface{ Scan(...any) error }) (*Campaign, error) {
	var c Campaign
	var startDate, endDate, channels, createdAt, updatedAt string

	err := row.Scan(&c.ID, &c.Name, &startDate, &endDate, &c.Frequency,
		&c.PublishTime, &c.WebsiteURL, &channels, &c.AutoApprove, &c.IsActive,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if c.StartDate, err = decodeDate(startDate); err != nil {
		return nil, err
	}
	if c.EndDate, err = decodeDate(endDate); err != nil {
		return nil, err
	}
	if c.Channels, err = decodeStrings(channels); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*Campaign, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE id = ?
	`, id)

	c, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign by ID: %w", err)
	}
	return c, nil
}

// GetActive returns all campaigns with the active flag set. Active is a
// filter predicate: multiple campaigns may run concurrently.
func (r *campaignRepository) GetActive(ctx context.Context) ([]Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE is_active = 1
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get active campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign row: %w", err)
		}
		campaigns = append(campaigns, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign rows: %w", err)
	}

	return campaigns, nil
}

func (r *campaignRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns
		SET is_active = ?, updated_at = ?
		WHERE id = ?
	`, active, encodeTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("failed to set campaign active flag: %w", err)
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

// DeactivateExpired clears the active flag on campaigns whose end date has
// elapsed and returns how many were deactivated.
func (r *campaignRepository) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns
		SET is_active = 0, updated_at = ?
		WHERE is_active = 1 AND end_date < ?
	`, encodeTime(now), encodeDate(now))
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired campaigns: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *campaignRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM campaigns").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get campaign count: %w", err)
	}
	return count, nil
}
