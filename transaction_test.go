package libjio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestFile(t *testing.T) *File {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data")
	f, err := Open(path, os.O_RDWR|os.O_CREATE, 0644, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestTransactionAddAfterCommitFails(t *testing.T) {
	f := openTestFile(t)

	tx := NewTransaction(f)
	_, err := tx.Add([]byte("hello"), 0)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	_, err = tx.Add([]byte("world"), 0)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestTransactionEmptyCommitIsNoop(t *testing.T) {
	f := openTestFile(t)

	tx := NewTransaction(f)
	require.NoError(t, tx.Commit())
	require.Equal(t, uint32(0), tx.ID())
}

func TestTransactionSetPayloadBeforeCommit(t *testing.T) {
	f := openTestFile(t)

	tx := NewTransaction(f)
	require.NoError(t, tx.SetPayload([]byte("meta")))
	_, err := tx.Add([]byte("x"), 0)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.ErrorIs(t, tx.SetPayload([]byte("late")), ErrInvalidState)
}
