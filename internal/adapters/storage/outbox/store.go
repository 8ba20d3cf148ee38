package outbox

import (
	"context"
	"errors"

	domain "almadash/internal/domain/outbox"
)

// ErrNotFound is returned when an outbox entry does not exist.
var ErrNotFound = errors.New("outbox entry not found")

// Store defines the interface for outbox entry persistence.
type Store interface {
	// GetByID retrieves an outbox entry by its id.
	// POST: Returns the entry or ErrNotFound
	GetByID(ctx context.Context, id int64) (domain.Entry, error)

	// Insert stores a new entry and returns it with the assigned id.
	// PRE: entry has been validated
	Insert(ctx context.Context, e domain.Entry) (domain.Entry, error)

	// Save rewrites the full row after an attempt.
	// PRE: e.ID is set
	Save(ctx context.Context, e domain.Entry) error

	// ListPending returns entries that need to be processed (pending or
	// retrying), oldest first.
	// PRE: limit > 0
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListFailed returns entries that have permanently failed, most recent
	// attempt first.
	// PRE: limit > 0
	ListFailed(ctx context.Context, limit int) ([]domain.Entry, error)
}
