package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// keywordRepository handles database operations for the keyword pool
type keywordRepository struct {
	db *DB
}

// NewKeywordRepository creates a new keyword repository
func NewKeywordRepository(db *DB) KeywordRepository {
	return &keywordRepository{db: db}
}

// Add appends the given texts to the pool with status Available. Duplicate
// text is allowed; entries are not merged.
func (r *keywordRepository) Add(ctx context.Context, texts []string) ([]Keyword, error) {
	now := time.Now().UTC()

	keywords := make([]Keyword, 0, len(texts))
	for _, text := range texts {
		kw := Keyword{
			ID:        uuid.New().String(),
			Text:      text,
			Status:    "Available",
			CreatedAt: now,
		}

		_, err := r.db.ExecContext(ctx, `
			INSERT INTO keywords (id, keyword, status, created_at)
			VALUES (?, ?, ?, ?)
		`, kw.ID, kw.Text, kw.Status, encodeTime(now))
		if err != nil {
			return keywords, fmt.Errorf("failed to add keyword %q: %w", text, err)
		}

		keywords = append(keywords, kw)
	}

	return keywords, nil
}

// ListAvailable returns Available keywords in insertion order, up to limit.
// Read-only: selection does not consume a keyword.
func (r *keywordRepository) ListAvailable(ctx context.Context, limit int) ([]Keyword, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, keyword, status, created_at
		FROM keywords
		WHERE status = 'Available'
		ORDER BY rowid
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list available keywords: %w", err)
	}
	defer rows.Close()

	var keywords []Keyword
	for rows.Next() {
		var kw Keyword
		var createdAt string
		if err := rows.Scan(&kw.ID, &kw.Text, &kw.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword row: %w", err)
		}
		if kw.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword rows: %w", err)
	}

	return keywords, nil
}

func (r *keywordRepository) GetByID(ctx context.Context, id string) (*Keyword, error) {
	var kw Keyword
	var createdAt string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, keyword, status, created_at
		FROM keywords
		WHERE id = ?
	`, id).Scan(&kw.ID, &kw.Text, &kw.Status, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword by ID: %w", err)
	}

	if kw.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &kw, nil
}

// UpdateStatus transitions a keyword from one status to another as a single
// guarded update. Returns false without writing when the keyword is not
// currently in the expected status.
func (r *keywordRepository) UpdateStatus(ctx context.Context, id, from, to string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE keywords
		SET status = ?
		WHERE id = ? AND status = ?
	`, to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update keyword status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *keywordRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM keywords WHERE status = ?", status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count keywords by status: %w", err)
	}
	return count, nil
}

func (r *keywordRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM keywords").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get keyword count: %w", err)
	}
	return count, nil
}
