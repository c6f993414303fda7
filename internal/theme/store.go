package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Zachkp/portfolio/internal/db"
)

// SQLStore keeps preferences per visitor in the preferences table.
type SQLStore struct {
	db *db.DB
}

// NewSQLStore creates a SQLStore.
func NewSQLStore(database *db.DB) *SQLStore {
	return &SQLStore{db: database}
}

// For returns the Store of one visitor.
func (s *SQLStore) For(visitorID string) Store {
	return &visitorStore{db: s.db, visitor: visitorID}
}

type visitorStore struct {
	db      *db.DB
	visitor string
}

func (v *visitorStore) Load(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := v.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE visitor_id = ? AND key = ?`, v.visitor, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading preference %s: %w", key, err)
	}
	return value, true, nil
}

func (v *visitorStore) Save(ctx context.Context, key, value string) error {
	_, err := v.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, key, value, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(visitor_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		v.visitor, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}
