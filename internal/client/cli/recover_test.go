package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avdeev/lockbox/internal/common"
)

func TestRecover_HappyPath(t *testing.T) {
	capturePrintln(t)
	stubPassword(t, "freshpw")

	app, _ := newTestApp(t, &fakeVault{}, readerFromLines(
		"alice",
		"Fluffy",
		"Elm",
		"Smith",
	), false)

	require.NoError(t, app.Recover(context.Background()))

	// The old password no longer opens the vault, the new one does.
	err := app.session.Login(context.Background(), "alice", "masterpw")
	require.ErrorIs(t, err, common.ErrInvalidCredential)
	require.NoError(t, app.session.Login(context.Background(), "alice", "freshpw"))
}

func TestRecover_AnswersAreCaseInsensitive(t *testing.T) {
	capturePrintln(t)
	stubPassword(t, "freshpw")

	app, _ := newTestApp(t, &fakeVault{}, readerFromLines(
		"alice",
		"  FLUFFY  ",
		"elm",
		"sMiTh",
	), false)

	require.NoError(t, app.Recover(context.Background()))
	require.NoError(t, app.session.Login(context.Background(), "alice", "freshpw"))
}

func TestRecover_RetriesAfterMismatch(t *testing.T) {
	capturePrintln(t)
	stubPassword(t, "freshpw")

	// First round fails on the second answer; the flow re-prompts and the
	// second round succeeds.
	app, _ := newTestApp(t, &fakeVault{}, readerFromLines(
		"alice",
		"Fluffy", "wrong", "Smith",
		"Fluffy", "Elm", "Smith",
	), false)

	require.NoError(t, app.Recover(context.Background()))
	require.NoError(t, app.session.Login(context.Background(), "alice", "freshpw"))
}

func TestRecover_LockoutAfterThreeRounds(t *testing.T) {
	capturePrintln(t)

	app, _ := newTestApp(t, &fakeVault{}, readerFromLines(
		"alice",
		"wrong", "wrong", "wrong",
		"wrong", "wrong", "wrong",
		"wrong", "wrong", "wrong",
	), false)

	err := app.Recover(context.Background())
	require.ErrorIs(t, err, common.ErrRecoveryLocked)
}

func TestRecover_UnknownAccount(t *testing.T) {
	capturePrintln(t)

	app, _ := newTestApp(t, &fakeVault{}, readerFromLines("nobody"), false)

	err := app.Recover(context.Background())
	require.ErrorIs(t, err, common.ErrAccountNotFound)
}
