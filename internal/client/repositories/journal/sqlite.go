package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/dbx"
	"github.com/google/uuid"
)

var nowFn = time.Now

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Track(ctx context.Context, item models.GalleryItem) error {
	query := `INSERT INTO pending_deletes (id, filename, url, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET url = excluded.url`

	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), item.Filename, item.URL, nowFn().UTC())
	if err != nil {
		return fmt.Errorf("failed to track %s: %w", item.Filename, err)
	}
	return nil
}

func (r *SQLiteRepository) Forget(ctx context.Context, filename string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_deletes WHERE filename = ?`, filename); err != nil {
		return fmt.Errorf("failed to forget %s: %w", filename, err)
	}
	return nil
}

func (r *SQLiteRepository) Pending(ctx context.Context) ([]models.GalleryItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT filename, url FROM pending_deletes ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deletes: %w", err)
	}
	defer rows.Close()

	var items []models.GalleryItem
	for rows.Next() {
		var it models.GalleryItem
		if err := rows.Scan(&it.Filename, &it.URL); err != nil {
			return nil, fmt.Errorf("failed to scan pending delete: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending deletes: %w", err)
	}
	return items, nil
}

// Store is a Repository bound to a database handle that can also record a
// batch in one transaction.
type Store struct {
	*SQLiteRepository
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{SQLiteRepository: NewSQLiteRepository(db), db: db}
}

// TrackAll records items atomically.
func (s *Store) TrackAll(ctx context.Context, items []models.GalleryItem) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		for _, it := range items {
			if err := repo.Track(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
}
