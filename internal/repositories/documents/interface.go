package documents

import (
	"context"

	"github.com/dkarpov/papersync/internal/models"
)

// Filter is a conjunction of optional predicates for Query.
type Filter struct {
	// State matches documents with exactly this sync state.
	State *models.SyncState

	// NameContains matches documents whose name contains the substring,
	// case-insensitively.
	NameContains string

	// Favorite matches documents with this favorite flag.
	Favorite *bool

	// ExcludeTombstones skips documents marked for deletion. List surfaces
	// for the UI set this; the sync coordinator does not.
	ExcludeTombstones bool
}

// Repository describes CRUD and query operations for Document records.
// Implementations are typically backed by a local SQLite database and must
// serialize concurrent mutations of the same id.
type Repository interface {
	// Upsert inserts the document or fully replaces the one with the same ID.
	Upsert(ctx context.Context, doc *models.Document) error

	// Delete physically removes a document. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Find returns the document with the given id, or common.ErrNotFound.
	Find(ctx context.Context, id string) (*models.Document, error)

	// Query returns documents matching the filter, newest UpdatedAt first.
	Query(ctx context.Context, f Filter) ([]models.Document, error)

	// ListPending returns documents in the given sync state, oldest
	// UpdatedAt first, so the longest-waiting records are pushed first.
	ListPending(ctx context.Context, state models.SyncState) ([]models.Document, error)

	// IncrementDeleteAttempts bumps a tombstone's failed-delete counter and
	// returns the new value.
	IncrementDeleteAttempts(ctx context.Context, id string) (int, error)
}
