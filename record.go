package libjio

import (
	"encoding/binary"

	"github.com/Patrickaos/libjio/internal/jiosum"
)

// Record is the in-memory result of decoding a journal record read off
// disk: the raw id/flags plus the operations and user payload, without any
// binding to a live Transaction or File. The fsck package uses ParseRecord
// and Record to inspect and replay surviving journal records.
type Record struct {
	ID      uint32
	Flags   TxFlags
	Ops     []Operation
	Payload []byte
}

// encodeRecord serializes tx into the on-disk format described in
// SPEC_FULL.md §4.4: header, each operation's {len, plen, offset, newdata},
// the optional user payload, then a trailing checksum over everything
// before it.
func encodeRecord(tx *Transaction) []byte {
	size := recordHeaderSize
	for _, op := range tx.ops {
		size += opHeaderSize + len(op.New)
	}
	size += len(tx.payload)
	size += checksumSize

	buf := make([]byte, size)
	p := 0

	binary.LittleEndian.PutUint32(buf[p:], tx.id)
	p += 4
	binary.LittleEndian.PutUint32(buf[p:], uint32(tx.flags))
	p += 4
	binary.LittleEndian.PutUint32(buf[p:], uint32(len(tx.ops)))
	p += 4

	for _, op := range tx.ops {
		binary.LittleEndian.PutUint32(buf[p:], uint32(len(op.New)))
		p += 4
		binary.LittleEndian.PutUint32(buf[p:], uint32(op.Plen))
		p += 4
		binary.LittleEndian.PutUint64(buf[p:], uint64(op.Offset))
		p += 8
		p += copy(buf[p:], op.New)
	}

	p += copy(buf[p:], tx.payload)

	sum := jiosum.Sum(buf[:p])
	binary.LittleEndian.PutUint32(buf[p:], sum)

	return buf
}

// ParseRecord decodes a journal record previously written by encodeRecord,
// rejecting anything whose declared lengths would walk past the end of
// data or whose trailing checksum doesn't match.
func ParseRecord(data []byte) (*Record, error) {
	if len(data) < recordHeaderSize+checksumSize {
		return nil, ErrCorruptRecord
	}

	body := data[:len(data)-checksumSize]
	wantSum := binary.LittleEndian.Uint32(data[len(data)-checksumSize:])
	if jiosum.Sum(body) != wantSum {
		return nil, ErrCorruptRecord
	}

	p := 0
	id := binary.LittleEndian.Uint32(body[p:])
	p += 4
	flags := TxFlags(binary.LittleEndian.Uint32(body[p:]))
	p += 4
	numops := binary.LittleEndian.Uint32(body[p:])
	p += 4

	ops := make([]Operation, 0, numops)
	for i := uint32(0); i < numops; i++ {
		if p+opHeaderSize > len(body) {
			return nil, ErrCorruptRecord
		}
		length := binary.LittleEndian.Uint32(body[p:])
		p += 4
		plen := binary.LittleEndian.Uint32(body[p:])
		p += 4
		offset := int64(binary.LittleEndian.Uint64(body[p:]))
		p += 8

		if length > maxOpSize {
			return nil, ErrOutOfMemory
		}
		if p+int(length) > len(body) {
			return nil, ErrCorruptRecord
		}

		newData := make([]byte, length)
		copy(newData, body[p:p+int(length)])
		p += int(length)

		ops = append(ops, Operation{New: newData, Offset: offset, Plen: int(plen)})
	}

	payload := make([]byte, len(body)-p)
	copy(payload, body[p:])

	return &Record{ID: id, Flags: flags, Ops: ops, Payload: payload}, nil
}
