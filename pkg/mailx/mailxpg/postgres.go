// Package mailxpg persists named delivery accounts in PostgreSQL.
package mailxpg

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dmichel1/vigil/pkg/errx"
	"github.com/dmichel1/vigil/pkg/mailx"
)

// PostgresAccountStore is the PostgreSQL implementation of mailx.AccountStore.
type PostgresAccountStore struct {
	db *sqlx.DB
}

// NewPostgresAccountStore creates a new account store.
func NewPostgresAccountStore(db *sqlx.DB) mailx.AccountStore {
	return &PostgresAccountStore{db: db}
}

// Save inserts or updates an account by name.
func (s *PostgresAccountStore) Save(ctx context.Context, account mailx.Account) error {
	now := time.Now().UTC()
	account.UpdatedAt = now
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}

	query := `
		INSERT INTO mail_accounts (
			name, default_from, reply_to, configuration_set, created_at, updated_at
		) VALUES (
			:name, :default_from, :reply_to, :configuration_set, :created_at, :updated_at
		)
		ON CONFLICT (name) DO UPDATE SET
			default_from = :default_from,
			reply_to = :reply_to,
			configuration_set = :configuration_set,
			updated_at = :updated_at`

	_, err := s.db.NamedExecContext(ctx, query, account)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" { // check_violation
			return errx.Wrap(err, "invalid account definition", errx.TypeValidation).
				WithDetail("account", account.Name)
		}
		return errx.Wrap(err, "failed to save mail account", errx.TypeInternal).
			WithDetail("account", account.Name)
	}
	return nil
}

// Get loads one account by name.
func (s *PostgresAccountStore) Get(ctx context.Context, name string) (*mailx.Account, error) {
	var account mailx.Account
	query := `SELECT name, default_from, reply_to, configuration_set, created_at, updated_at
		FROM mail_accounts WHERE name = $1`

	err := s.db.GetContext(ctx, &account, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, mailx.ErrAccountNotFoundError(name)
		}
		return nil, errx.Wrap(err, "failed to load mail account", errx.TypeInternal).
			WithDetail("account", name)
	}
	return &account, nil
}

// List returns every account ordered by name.
func (s *PostgresAccountStore) List(ctx context.Context) ([]mailx.Account, error) {
	accounts := []mailx.Account{}
	query := `SELECT name, default_from, reply_to, configuration_set, created_at, updated_at
		FROM mail_accounts ORDER BY name`

	if err := s.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, errx.Wrap(err, "failed to list mail accounts", errx.TypeInternal)
	}
	return accounts, nil
}

// Delete removes an account by name.
func (s *PostgresAccountStore) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM mail_accounts WHERE name = $1`, name)
	if err != nil {
		return errx.Wrap(err, "failed to delete mail account", errx.TypeInternal).
			WithDetail("account", name)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return mailx.ErrAccountNotFoundError(name)
	}
	return nil
}
