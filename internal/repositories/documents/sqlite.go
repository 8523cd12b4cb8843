package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dkarpov/papersync/internal/common"
	"github.com/dkarpov/papersync/internal/dbx"
	"github.com/dkarpov/papersync/internal/models"
)

// SQLiteRepository implements Repository over a local SQLite database.
// Mutations on the same id are serialized with a per-id lock, so at most
// one write per document is in flight at any time.
type SQLiteRepository struct {
	db    *sql.DB
	locks sync.Map // id -> *sync.Mutex
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) lockFor(id string) *sync.Mutex {
	m, _ := r.locks.LoadOrStore(id, &sync.Mutex{})
	return m.(*sync.Mutex)
}

const docColumns = `id, name, is_favorite, created_at, updated_at, sync_state, delete_attempts`

func scanDocument(row interface{ Scan(...any) error }) (*models.Document, error) {
	var (
		d       models.Document
		fav     int
		created int64
		updated int64
	)
	if err := row.Scan(&d.ID, &d.Name, &fav, &created, &updated, &d.SyncState, &d.DeleteAttempts); err != nil {
		return nil, err
	}
	d.IsFavorite = fav != 0
	d.CreatedAt = time.Unix(0, created).UTC()
	d.UpdatedAt = time.Unix(0, updated).UTC()
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Upsert inserts or fully replaces the document with matching id.
func (r *SQLiteRepository) Upsert(ctx context.Context, doc *models.Document) error {
	mu := r.lockFor(doc.ID)
	mu.Lock()
	defer mu.Unlock()

	query := `INSERT INTO documents (id, name, is_favorite, created_at, updated_at, sync_state, delete_attempts)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				is_favorite = excluded.is_favorite,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				sync_state = excluded.sync_state,
				delete_attempts = excluded.delete_attempts
	`
	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Name, boolToInt(doc.IsFavorite),
		doc.CreatedAt.UTC().UnixNano(),
		doc.UpdatedAt.UTC().UnixNano(),
		string(doc.SyncState), doc.DeleteAttempts)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert document: %v", common.ErrLocalStore, err)
	}
	return nil
}

// Delete physically removes the document. Absent ids are a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	mu := r.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: failed to delete document: %v", common.ErrLocalStore, err)
	}
	return nil
}

// Find returns the document with the given id, or common.ErrNotFound.
func (r *SQLiteRepository) Find(ctx context.Context, id string) (*models.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+docColumns+` FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select document: %v", common.ErrLocalStore, err)
	}
	return doc, nil
}

// Query returns documents matching the filter, newest UpdatedAt first.
func (r *SQLiteRepository) Query(ctx context.Context, f Filter) ([]models.Document, error) {
	var (
		conds []string
		args  []any
	)
	if f.State != nil {
		conds = append(conds, `sync_state = ?`)
		args = append(args, string(*f.State))
	}
	if f.NameContains != "" {
		conds = append(conds, `LOWER(name) LIKE '%' || LOWER(?) || '%'`)
		args = append(args, f.NameContains)
	}
	if f.Favorite != nil {
		conds = append(conds, `is_favorite = ?`)
		args = append(args, boolToInt(*f.Favorite))
	}
	if f.ExcludeTombstones {
		conds = append(conds, `sync_state != ?`)
		args = append(args, string(models.SyncStateNeedsDelete))
	}

	query := `SELECT ` + docColumns + ` FROM documents`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY updated_at DESC`

	return r.selectDocuments(ctx, query, args...)
}

// ListPending returns documents in the given sync state, oldest first.
func (r *SQLiteRepository) ListPending(ctx context.Context, state models.SyncState) ([]models.Document, error) {
	query := `SELECT ` + docColumns + ` FROM documents WHERE sync_state = ? ORDER BY updated_at ASC`
	return r.selectDocuments(ctx, query, string(state))
}

func (r *SQLiteRepository) selectDocuments(ctx context.Context, query string, args ...any) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select documents: %v", common.ErrLocalStore, err)
	}
	defer rows.Close()

	var result []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
		}
		result = append(result, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return result, nil
}

// IncrementDeleteAttempts bumps the failed-delete counter for a tombstone
// and returns the new value.
func (r *SQLiteRepository) IncrementDeleteAttempts(ctx context.Context, id string) (int, error) {
	mu := r.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	var attempts int
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE documents SET delete_attempts = delete_attempts + 1 WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return common.ErrNotFound
		}
		return tx.QueryRowContext(ctx,
			`SELECT delete_attempts FROM documents WHERE id = ?`, id).Scan(&attempts)
	})
	if errors.Is(err, common.ErrNotFound) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("%w: failed to bump delete attempts: %v", common.ErrLocalStore, err)
	}
	return attempts, nil
}
