package documents

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dkarpov/papersync/internal/common"
	"github.com/dkarpov/papersync/internal/models"
)

var dbSeq int

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:docrepo%d?mode=memory&cache=shared", dbSeq)
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
  id              TEXT PRIMARY KEY,
  name            TEXT NOT NULL,
  is_favorite     INTEGER NOT NULL DEFAULT 0,
  created_at      INTEGER NOT NULL,
  updated_at      INTEGER NOT NULL,
  sync_state      TEXT NOT NULL,
  delete_attempts INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_documents_sync_state ON documents (sync_state);
`)
	require.NoError(t, err)
	return db
}

func testDoc(id, name string, state models.SyncState, updated time.Time) *models.Document {
	return &models.Document{
		ID:        id,
		Name:      name,
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
		SyncState: state,
	}
}

func TestUpsert_InsertsThenReplaces(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	doc := testDoc("d1", "Draft", models.SyncStateNeedsCreate, now)
	require.NoError(t, repo.Upsert(ctx, doc))

	doc.Name = "Final"
	doc.SyncState = models.SyncStateSynced
	doc.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.Upsert(ctx, doc))

	got, err := repo.Find(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, "Final", got.Name)
	require.Equal(t, models.SyncStateSynced, got.SyncState)
	require.True(t, got.UpdatedAt.Equal(now.Add(time.Minute)))
	require.True(t, got.CreatedAt.Equal(doc.CreatedAt))
}

func TestFind_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.Find(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_RemovesAndIgnoresAbsent(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testDoc("d1", "A", models.SyncStateSynced, time.Now())))
	require.NoError(t, repo.Delete(ctx, "d1"))

	_, err := repo.Find(ctx, "d1")
	require.ErrorIs(t, err, common.ErrNotFound)

	// deleting again is a no-op, not an error
	require.NoError(t, repo.Delete(ctx, "d1"))
}

func TestQuery_FiltersAndSortsNewestFirst(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	a := testDoc("a", "Meeting notes", models.SyncStateSynced, base)
	b := testDoc("b", "Shopping List", models.SyncStateNeedsUpdate, base.Add(2*time.Minute))
	b.IsFavorite = true
	c := testDoc("c", "notes on GO", models.SyncStateNeedsDelete, base.Add(time.Minute))
	for _, d := range []*models.Document{a, b, c} {
		require.NoError(t, repo.Upsert(ctx, d))
	}

	all, err := repo.Query(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"b", "c", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	// case-insensitive name match
	byName, err := repo.Query(ctx, Filter{NameContains: "NOTES"})
	require.NoError(t, err)
	require.Len(t, byName, 2)

	fav := true
	byFav, err := repo.Query(ctx, Filter{Favorite: &fav})
	require.NoError(t, err)
	require.Len(t, byFav, 1)
	require.Equal(t, "b", byFav[0].ID)

	state := models.SyncStateNeedsUpdate
	byState, err := repo.Query(ctx, Filter{State: &state})
	require.NoError(t, err)
	require.Len(t, byState, 1)

	visible, err := repo.Query(ctx, Filter{ExcludeTombstones: true})
	require.NoError(t, err)
	require.Len(t, visible, 2)
	for _, d := range visible {
		require.NotEqual(t, models.SyncStateNeedsDelete, d.SyncState)
	}
}

func TestListPending_OldestFirst(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, testDoc("new", "N", models.SyncStateNeedsCreate, base.Add(time.Hour))))
	require.NoError(t, repo.Upsert(ctx, testDoc("old", "O", models.SyncStateNeedsCreate, base)))
	require.NoError(t, repo.Upsert(ctx, testDoc("synced", "S", models.SyncStateSynced, base)))

	pending, err := repo.ListPending(ctx, models.SyncStateNeedsCreate)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "old", pending[0].ID)
	require.Equal(t, "new", pending[1].ID)
}

func TestIncrementDeleteAttempts(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testDoc("d1", "A", models.SyncStateNeedsDelete, time.Now())))

	n, err := repo.IncrementDeleteAttempts(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = repo.IncrementDeleteAttempts(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	got, err := repo.Find(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, 2, got.DeleteAttempts)

	_, err = repo.IncrementDeleteAttempts(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpsert_ConcurrentSameID(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := testDoc("same", fmt.Sprintf("v%d", i), models.SyncStateNeedsUpdate, now.Add(time.Duration(i)*time.Millisecond))
			_ = repo.Upsert(ctx, d)
		}(i)
	}
	wg.Wait()

	// one row survives, whichever writer came last
	docs, err := repo.Query(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "same", docs[0].ID)
}
