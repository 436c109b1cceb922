package libjio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRollbackRestoresPriorContent(t *testing.T) {
	f := openTestFile(t)

	_, err := f.Pwrite([]byte("original"), 0)
	require.NoError(t, err)

	tx := NewTransaction(f)
	_, err = tx.Add([]byte("replaced"), 0)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	buf := make([]byte, 8)
	_, err = f.Pread(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "replaced", string(buf))

	require.NoError(t, tx.Rollback())

	_, err = f.Pread(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "original", string(buf))
}

func TestRollbackTruncatesExtendedFile(t *testing.T) {
	f := openTestFile(t)

	tx := NewTransaction(f)
	_, err := tx.Add([]byte("grown"), 0)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	fi, err := f.fd.Stat()
	require.NoError(t, err)
	require.Equal(t, int64(5), fi.Size())

	require.NoError(t, tx.Rollback())

	fi, err = f.fd.Stat()
	require.NoError(t, err)
	require.Equal(t, int64(0), fi.Size())
}

func TestRollbackBeforeCommitFails(t *testing.T) {
	f := openTestFile(t)

	tx := NewTransaction(f)
	_, err := tx.Add([]byte("x"), 0)
	require.NoError(t, err)
	require.ErrorIs(t, tx.Rollback(), ErrInvalidState)
}

func TestRollbackDisabledByNoRollbackFlag(t *testing.T) {
	f := openTestFile(t)
	f.flags |= NoRollback

	tx := NewTransaction(f)
	_, err := tx.Add([]byte("x"), 0)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	err = tx.Rollback()
	require.Error(t, err)
}
