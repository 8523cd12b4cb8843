// Package models defines the client-side document model synchronized with
// the remote document service.
package models

import "time"

// SyncState classifies the local mutation intent of a document.
type SyncState string

const (
	// SyncStateSynced means the local copy matches the last known server state.
	SyncStateSynced SyncState = "synced"

	// SyncStateNeedsCreate marks a document created locally and not yet
	// acknowledged by the server.
	SyncStateNeedsCreate SyncState = "needs_create"

	// SyncStateNeedsUpdate marks a document with local edits not yet pushed.
	SyncStateNeedsUpdate SyncState = "needs_update"

	// SyncStateNeedsDelete is a tombstone: the document stays in the local
	// store until the server confirms deletion.
	SyncStateNeedsDelete SyncState = "needs_delete"
)

// Pending reports whether the state represents unresolved local intent.
func (s SyncState) Pending() bool {
	return s != SyncStateSynced
}

// Document is the unit of synchronization, persisted locally and mirrored
// on the remote document service.
type Document struct {
	// ID is a globally unique identifier, client-generated at creation and
	// never reassigned.
	ID string

	// Name is the user-editable display name.
	Name string

	// IsFavorite marks the document as a favorite.
	IsFavorite bool

	// CreatedAt is the creation time, immutable after creation.
	CreatedAt time.Time

	// UpdatedAt advances on every local mutation and is the sole tie-breaker
	// when merging against remote state.
	UpdatedAt time.Time

	// SyncState is the document's current mutation intent.
	SyncState SyncState

	// DeleteAttempts counts failed remote deletes for a tombstone; used to
	// bound retries.
	DeleteAttempts int
}
