package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeev/lockbox/internal/client/models"
	"github.com/avdeev/lockbox/internal/common"

	_ "modernc.org/sqlite"
)

func TestInitDatabase_MigratesAndWires(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, "file:storagetest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	// The migrated schema must accept a full account row.
	account := &models.Account{
		Identifier:       "a@x.com",
		CredentialDigest: "0a1b2c3d",
		Salt:             []byte("salt"),
		KeyEnvelope:      []byte("env"),
		KeyNonce:         []byte("n"),
		RecoveryEnvelope: []byte("renv"),
		RecoveryNonce:    []byte("rn"),
		Questions: []models.SecurityQuestion{
			{Question: "Q1", AnswerDigest: "d1"},
			{Question: "Q2", AnswerDigest: "d2"},
			{Question: "Q3", AnswerDigest: "d3"},
		},
		Settings: models.DefaultSettings(),
	}
	require.NoError(t, repos.Accounts.Put(ctx, account))

	got, err := repos.Accounts.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, account, got)

	// Running migrations again is a no-op.
	require.NoError(t, RunMigrations(ctx, repos.DB))
}

func TestPurgeAccount_RemovesAccountAndEntries(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, "file:purgetest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	account := &models.Account{
		Identifier:       "a@x.com",
		CredentialDigest: "0a1b2c3d",
		Salt:             []byte("salt"),
		KeyEnvelope:      []byte("env"),
		KeyNonce:         []byte("n"),
		RecoveryEnvelope: []byte("renv"),
		RecoveryNonce:    []byte("rn"),
		Questions: []models.SecurityQuestion{
			{Question: "Q1", AnswerDigest: "d1"},
			{Question: "Q2", AnswerDigest: "d2"},
			{Question: "Q3", AnswerDigest: "d3"},
		},
		Settings: models.DefaultSettings(),
	}
	require.NoError(t, repos.Accounts.Put(ctx, account))

	for _, id := range []string{"e1", "e2"} {
		require.NoError(t, repos.Entries.CreateOrUpdate(ctx, &models.Entry{
			ID:            id,
			AccountID:     "a@x.com",
			Kind:          models.EntryKindNote,
			Overview:      []byte("ov"),
			NonceOverview: []byte("no"),
			Details:       []byte("de"),
			NonceDetails:  []byte("nd"),
			UpdatedAt:     time.Now().UTC(),
		}))
	}

	require.NoError(t, repos.PurgeAccount(ctx, "a@x.com"))

	_, err = repos.Accounts.Get(ctx, "a@x.com")
	require.ErrorIs(t, err, common.ErrAccountNotFound)

	rows, err := repos.Entries.GetAll(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Purging an absent account fails without side effects.
	require.ErrorIs(t, repos.PurgeAccount(ctx, "a@x.com"), common.ErrAccountNotFound)
}
