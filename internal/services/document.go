// Package services holds the document facade: the only entry point for
// mutating documents. Every mutation lands in the local store first and
// remote work is enqueued through the sync coordinator.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkarpov/papersync/internal/common"
	"github.com/dkarpov/papersync/internal/models"
	"github.com/dkarpov/papersync/internal/repositories/documents"
)

// SyncTrigger requests a sync pass. syncer.Coordinator satisfies this; it
// drops triggers while offline, so the facade fires unconditionally after
// every local mutation.
type SyncTrigger interface {
	RequestSync(onComplete func())
}

type DocumentService interface {
	// Create makes a new document locally and enqueues its remote creation.
	Create(ctx context.Context, name string, favorite bool) (*models.Document, error)

	// Update applies mutate to the document's editable fields, advances
	// UpdatedAt and enqueues the remote update.
	Update(ctx context.Context, id string, mutate func(doc *models.Document)) (*models.Document, error)

	// Rename sets the document's name.
	Rename(ctx context.Context, id string, name string) (*models.Document, error)

	// ToggleFavorite flips the favorite flag.
	ToggleFavorite(ctx context.Context, id string) (*models.Document, error)

	// Delete removes the document. Records never pushed are removed locally
	// with no network call; everything else becomes a tombstone.
	Delete(ctx context.Context, id string) error

	// Get returns the document with the given id. Tombstones behave as
	// not found.
	Get(ctx context.Context, id string) (*models.Document, error)

	// List returns visible documents matching the optional name substring
	// and favorites filter, newest first.
	List(ctx context.Context, nameContains string, favoritesOnly bool) ([]models.Document, error)
}

type documentService struct {
	repo documents.Repository
	sync SyncTrigger
	now  func() time.Time
}

func NewDocumentService(repo documents.Repository, sync SyncTrigger) DocumentService {
	return &documentService{repo: repo, sync: sync, now: time.Now}
}

func (s *documentService) Create(ctx context.Context, name string, favorite bool) (*models.Document, error) {
	now := s.now().UTC()
	doc := &models.Document{
		ID:         uuid.NewString(),
		Name:       name,
		IsFavorite: favorite,
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncState:  models.SyncStateNeedsCreate,
	}

	if err := s.repo.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	s.sync.RequestSync(nil)
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, id string, mutate func(doc *models.Document)) (*models.Document, error) {
	doc, err := s.findVisible(ctx, id)
	if err != nil {
		return nil, err
	}

	created, state := doc.CreatedAt, doc.SyncState
	mutate(doc)
	// identity and bookkeeping fields are not the mutator's to change
	doc.ID = id
	doc.CreatedAt = created
	doc.SyncState = state

	doc.UpdatedAt = s.now().UTC()
	if doc.SyncState != models.SyncStateNeedsCreate {
		// an uncreated record must be created first, never updated
		doc.SyncState = models.SyncStateNeedsUpdate
	}

	if err := s.repo.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	s.sync.RequestSync(nil)
	return doc, nil
}

func (s *documentService) Rename(ctx context.Context, id string, name string) (*models.Document, error) {
	return s.Update(ctx, id, func(doc *models.Document) {
		doc.Name = name
	})
}

func (s *documentService) ToggleFavorite(ctx context.Context, id string) (*models.Document, error) {
	return s.Update(ctx, id, func(doc *models.Document) {
		doc.IsFavorite = !doc.IsFavorite
	})
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.findVisible(ctx, id)
	if err != nil {
		return err
	}

	// never pushed: remove locally, no network call needed
	if doc.SyncState == models.SyncStateNeedsCreate {
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting document: %w", err)
		}
		return nil
	}

	doc.SyncState = models.SyncStateNeedsDelete
	doc.UpdatedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}

	s.sync.RequestSync(nil)
	return nil
}

func (s *documentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.findVisible(ctx, id)
}

func (s *documentService) List(ctx context.Context, nameContains string, favoritesOnly bool) ([]models.Document, error) {
	f := documents.Filter{NameContains: nameContains, ExcludeTombstones: true}
	if favoritesOnly {
		fav := true
		f.Favorite = &fav
	}

	docs, err := s.repo.Query(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return docs, nil
}

// findVisible loads a document, treating tombstones as already deleted.
func (s *documentService) findVisible(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving document: %w", err)
	}
	if doc.SyncState == models.SyncStateNeedsDelete {
		return nil, common.ErrNotFound
	}
	return doc, nil
}
