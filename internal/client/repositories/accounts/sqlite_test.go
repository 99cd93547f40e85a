package accounts

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeev/lockbox/internal/client/models"
	"github.com/avdeev/lockbox/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:accountsrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE accounts (
  identifier                 TEXT PRIMARY KEY,
  credential_digest          TEXT NOT NULL,
  salt                       BLOB NOT NULL,
  key_envelope               BLOB NOT NULL,
  key_nonce                  BLOB NOT NULL,
  recovery_envelope          BLOB NOT NULL,
  recovery_nonce             BLOB NOT NULL,
  questions                  TEXT NOT NULL,
  inactivity_timeout_minutes INTEGER NOT NULL,
  clipboard_clear_minutes    INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM accounts`)
	})
	return db
}

func sampleAccount() *models.Account {
	return &models.Account{
		Identifier:       "a@x.com",
		CredentialDigest: "0a1b2c3d",
		Salt:             []byte("salt"),
		KeyEnvelope:      []byte("env"),
		KeyNonce:         []byte("nonce"),
		RecoveryEnvelope: []byte("renv"),
		RecoveryNonce:    []byte("rnonce"),
		Questions: []models.SecurityQuestion{
			{Question: "Q1", AnswerDigest: "d1"},
			{Question: "Q2", AnswerDigest: "d2"},
			{Question: "Q3", AnswerDigest: "d3"},
		},
		Settings: models.DefaultSettings(),
	}
}

func TestSQLiteRepository_PutGet(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	want := sampleAccount()
	require.NoError(t, repo.Put(ctx, want))

	got, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	_, err := repo.Get(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, common.ErrAccountNotFound)
}

func TestSQLiteRepository_PutReplacesWholeRow(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	a := sampleAccount()
	require.NoError(t, repo.Put(ctx, a))

	a.CredentialDigest = "ffffffff"
	a.Settings.InactivityTimeoutMinutes = 10
	require.NoError(t, repo.Put(ctx, a))

	got, err := repo.Get(ctx, a.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "ffffffff", got.CredentialDigest)
	assert.Equal(t, 10, got.Settings.InactivityTimeoutMinutes)
}
