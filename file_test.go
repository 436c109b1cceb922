package libjio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilePwriteThenPread(t *testing.T) {
	f := openTestFile(t)

	n, err := f.Pwrite([]byte("hello world"), 0)
	require.NoError(t, err)
	require.Equal(t, 11, n)

	buf := make([]byte, 11)
	n, err = f.Pread(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, "hello world", string(buf))
}

func TestFileWriteAdvancesPosition(t *testing.T) {
	f := openTestFile(t)

	_, err := f.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = f.Write([]byte("def"))
	require.NoError(t, err)

	buf := make([]byte, 6)
	_, err = f.Pread(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(buf))
}

func TestFileWritevAdvancesByByteSum(t *testing.T) {
	f := openTestFile(t)

	n, err := f.Writev([][]byte{[]byte("ab"), []byte("cde"), []byte("f")})
	require.NoError(t, err)
	require.Equal(t, 6, n)

	// A second Writev must start where the first left off, proving the
	// position advanced by the byte sum and not by the iovec count (3).
	_, err = f.Writev([][]byte{[]byte("gh")})
	require.NoError(t, err)

	buf := make([]byte, 8)
	_, err = f.Pread(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "abcdefgh", string(buf))
}

func TestFileWriteExtendsFile(t *testing.T) {
	f := openTestFile(t)

	_, err := f.Pwrite([]byte("tail"), 100)
	require.NoError(t, err)

	fi, err := f.fd.Stat()
	require.NoError(t, err)
	require.Equal(t, int64(104), fi.Size())
}

func TestFileReadOnlyRejectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(path, []byte("seed"), 0644))

	f, err := Open(path, os.O_RDONLY, 0, ReadOnly)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Pwrite([]byte("x"), 0)
	require.Error(t, err)
}
