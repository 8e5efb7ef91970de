package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/dmitrijs2005/securepass/internal/dbx"
)

// SQLiteStore keeps values in the secrets table of the local vault database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM secrets WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret[%s]: %w", name, err)
	}
	return value, nil
}

// Put deletes any previous row and inserts the new one in one transaction.
func (s *SQLiteStore) Put(ctx context.Context, name string, value []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: invalid name %q", common.ErrStorageWriteFailed, name)
	}
	if value == nil {
		value = []byte{}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM secrets WHERE name = ?`, name); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO secrets (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			name, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: secret[%s]: %v", common.ErrStorageWriteFailed, name, err)
	}
	return nil
}
