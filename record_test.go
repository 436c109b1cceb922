package libjio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeParseRecordRoundTrip(t *testing.T) {
	tx := &Transaction{
		id:    7,
		flags: Committed,
		ops: []Operation{
			{New: []byte("hello"), Offset: 0, Plen: 5},
			{New: []byte("longer value"), Offset: 100, Plen: 3},
		},
		payload: []byte("user-meta"),
	}

	buf := encodeRecord(tx)
	rec, err := ParseRecord(buf)
	require.NoError(t, err)

	require.Equal(t, uint32(7), rec.ID)
	require.Equal(t, Committed, rec.Flags)
	require.Equal(t, []byte("user-meta"), rec.Payload)
	require.Len(t, rec.Ops, 2)
	require.Equal(t, "hello", string(rec.Ops[0].New))
	require.Equal(t, int64(0), rec.Ops[0].Offset)
	require.Equal(t, "longer value", string(rec.Ops[1].New))
	require.Equal(t, int64(100), rec.Ops[1].Offset)
}

func TestParseRecordRejectsTruncatedData(t *testing.T) {
	tx := &Transaction{id: 1, ops: []Operation{{New: []byte("abc"), Offset: 0}}}
	buf := encodeRecord(tx)

	_, err := ParseRecord(buf[:len(buf)-2])
	require.ErrorIs(t, err, ErrCorruptRecord)
}

func TestParseRecordRejectsBadChecksum(t *testing.T) {
	tx := &Transaction{id: 1, ops: []Operation{{New: []byte("abc"), Offset: 0}}}
	buf := encodeRecord(tx)
	buf[0] ^= 0xFF

	_, err := ParseRecord(buf)
	require.ErrorIs(t, err, ErrCorruptRecord)
}

func TestParseRecordRejectsEmptyData(t *testing.T) {
	_, err := ParseRecord(nil)
	require.ErrorIs(t, err, ErrCorruptRecord)
}
