// Package keyword manages the keyword pool feeding content generation.
package keyword

import (
	"context"

	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/errs"
)

// Keyword pool statuses as stored. Available -> Used on consumption;
// Deprecated is terminal and reachable from either.
const (
	StatusAvailable  = "Available"
	StatusUsed       = "Used"
	StatusDeprecated = "Deprecated"
)

// Pool selects and consumes keywords for content generation.
//
// Selection and consumption are separate calls with no lock between them:
// two overlapping scheduler passes could pick the same keyword. The guarded
// MarkUsed makes the second consumer fail loudly instead of double-marking,
// and the single-threaded scheduler avoids the overlap in practice.
type Pool struct {
	repo database.KeywordRepository
}

// NewPool creates a keyword pool over the keyword repository.
func NewPool(repo database.KeywordRepository) *Pool {
	return &Pool{repo: repo}
}

// AddKeywords appends entries with status Available. Duplicate text is kept
// verbatim; the pool has no dedup contract.
func (p *Pool) AddKeywords(ctx context.Context, texts []string) ([]database.Keyword, error) {
	return p.repo.Add(ctx, texts)
}

// NextAvailable returns up to count Available keywords in insertion order.
// Read-only: callers consume a keyword separately via MarkUsed.
func (p *Pool) NextAvailable(ctx context.Context, count int) ([]database.Keyword, error) {
	return p.repo.ListAvailable(ctx, count)
}

// MarkUsed consumes a keyword: exactly one Available -> Used transition.
// Fails with InvalidStateError when the keyword is not currently Available.
func (p *Pool) MarkUsed(ctx context.Context, id string) error {
	return p.setStatus(ctx, id, StatusAvailable, StatusUsed, "mark used")
}

// Deprecate retires a keyword from either non-terminal status.
func (p *Pool) Deprecate(ctx context.Context, id string) error {
	kw, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if kw == nil {
		return errs.NewNotFound("keyword", id)
	}
	if kw.Status == StatusDeprecated {
		return errs.NewInvalidState("keyword", id, kw.Status, "deprecate")
	}
	return p.setStatus(ctx, id, kw.Status, StatusDeprecated, "deprecate")
}

func (p *Pool) setStatus(ctx context.Context, id, from, to, op string) error {
	ok, err := p.repo.UpdateStatus(ctx, id, from, to)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	kw, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if kw == nil {
		return errs.NewNotFound("keyword", id)
	}
	return errs.NewInvalidState("keyword", id, kw.Status, op)
}
