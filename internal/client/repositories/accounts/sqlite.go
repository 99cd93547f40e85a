package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avdeev/lockbox/internal/client/models"
	"github.com/avdeev/lockbox/internal/common"
	"github.com/avdeev/lockbox/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get loads a single account by identifier.
func (r *SQLiteRepository) Get(ctx context.Context, identifier string) (*models.Account, error) {
	query := `
		SELECT identifier, credential_digest, salt, key_envelope, key_nonce,
		       recovery_envelope, recovery_nonce, questions,
		       inactivity_timeout_minutes, clipboard_clear_minutes
		FROM accounts WHERE identifier = ?`
	row := r.db.QueryRowContext(ctx, query, identifier)

	a := &models.Account{}
	var questions []byte
	err := row.Scan(&a.Identifier, &a.CredentialDigest, &a.Salt, &a.KeyEnvelope, &a.KeyNonce,
		&a.RecoveryEnvelope, &a.RecoveryNonce, &questions,
		&a.Settings.InactivityTimeoutMinutes, &a.Settings.ClipboardClearMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select account: %w", err)
	}

	if err := json.Unmarshal(questions, &a.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode security questions: %w", err)
	}
	return a, nil
}

// Put upserts an account by identifier. On conflict all columns are replaced,
// so the row always reflects one complete Account value.
func (r *SQLiteRepository) Put(ctx context.Context, a *models.Account) error {
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode security questions: %w", err)
	}

	query := `
		INSERT INTO accounts (identifier, credential_digest, salt, key_envelope, key_nonce,
			recovery_envelope, recovery_nonce, questions,
			inactivity_timeout_minutes, clipboard_clear_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			credential_digest = excluded.credential_digest,
			salt = excluded.salt,
			key_envelope = excluded.key_envelope,
			key_nonce = excluded.key_nonce,
			recovery_envelope = excluded.recovery_envelope,
			recovery_nonce = excluded.recovery_nonce,
			questions = excluded.questions,
			inactivity_timeout_minutes = excluded.inactivity_timeout_minutes,
			clipboard_clear_minutes = excluded.clipboard_clear_minutes
	`
	_, err = r.db.ExecContext(ctx, query,
		a.Identifier, a.CredentialDigest, a.Salt, a.KeyEnvelope, a.KeyNonce,
		a.RecoveryEnvelope, a.RecoveryNonce, questions,
		a.Settings.InactivityTimeoutMinutes, a.Settings.ClipboardClearMinutes)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

// Delete removes an account row. It expects exactly one row to be affected.
func (r *SQLiteRepository) Delete(ctx context.Context, identifier string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE identifier = ?`, identifier)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrAccountNotFound
	}
	return nil
}
