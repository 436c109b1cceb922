package libjio

import (
	"os"

	"github.com/Patrickaos/libjio/internal/jiolock"
	"github.com/Patrickaos/libjio/internal/jioio"
	"github.com/Patrickaos/libjio/internal/jiopath"
)

func lockRange(fd *os.File, offset, length int64) error {
	return jiolock.Lock(int(fd.Fd()), offset, length)
}

func unlockRange(fd *os.File, offset, length int64) error {
	return jiolock.Unlock(int(fd.Fd()), offset, length)
}

// Commit is the heart of the system: it executes the nine-step protocol of
// SPEC_FULL.md §4.6 — allocate id, write+fsync the journal record, apply
// it to the data file, then unlink the record and free the id. A failure
// before the fsync leaves no record behind and no new bytes in the data
// file (an extension of the data file made while capturing undo is kept);
// a failure after it leaves the record on disk for a future Check to
// replay.
func (tx *Transaction) Commit() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.state != txPending {
		return ErrInvalidState
	}

	f := tx.file
	if f.flags&ReadOnly != 0 {
		return newErr(CodeInvalidState, "file opened read-only", nil)
	}

	if len(tx.ops) == 0 {
		tx.state = txCommitted
		tx.flags |= Committed
		return nil
	}

	// Step 1: allocate id.
	id, err := f.journal.Alloc()
	if err != nil || id == 0 {
		return ioErr("allocate transaction id", err)
	}
	tx.id = id

	// Step 2: open and lock the record file.
	recPath := jiopath.RecordPath(f.journal.Dir, id)
	recFd, err := os.OpenFile(recPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, jiopath.RecordMode)
	if err != nil {
		f.journal.Free(id)
		return ioErr("create record file", err)
	}
	defer recFd.Close()

	if err := lockRange(recFd, 0, 0); err != nil {
		f.journal.Free(id)
		return ioErr("lock record file", err)
	}
	tx.name = recPath

	// Step 3: range-lock the data file, ascending by offset, unless
	// NoLock.
	var ranges []jiolock.Range
	if f.flags&NoLock == 0 {
		for i := range tx.ops {
			ranges = append(ranges, jiolock.Range{
				Offset: tx.ops[i].Offset,
				Length: tx.ops[i].length(),
			})
		}
		if err := jiolock.LockAscending(int(f.fd.Fd()), ranges); err != nil {
			unlockRange(recFd, 0, 0)
			os.Remove(recPath)
			f.journal.Free(id)
			return ioErr("lock data range", err)
		}
	}
	cleanupLocks := func() {
		if f.flags&NoLock == 0 {
			jiolock.UnlockAll(int(f.fd.Fd()), ranges)
		}
	}

	// abort handles any failure before step 7 (applying to the data
	// file) begins: no new bytes have been written to the data file yet,
	// so we unlink the record, free its id and release every lock. A size
	// extension already made by step 4 is not undone.
	abort := func(op string, err error) error {
		cleanupLocks()
		unlockRange(recFd, 0, 0)
		os.Remove(recPath)
		f.journal.Free(id)
		if f.metrics != nil {
			f.metrics.CommitErrors.Add(1)
		}
		return ioErr(op, err)
	}

	// Step 4: capture undo for each operation, extending the file first
	// if any operation's new data reaches past current EOF.
	for i := range tx.ops {
		op := &tx.ops[i]
		undo := make([]byte, len(op.New))
		n, err := jioio.Spread(f.fd, undo, op.Offset)
		if err != nil {
			return abort("capture undo", err)
		}
		op.Undo = undo
		op.Plen = n
		if n < len(op.New) {
			if err := f.fd.Truncate(op.Offset + op.length()); err != nil {
				return abort("extend data file", err)
			}
		}
	}

	// Step 5: serialize the record and step 6: fsync it — the only
	// synchronous flush in the critical path.
	buf := encodeRecord(tx)
	if _, err := jioio.Spwrite(recFd, buf, 0); err != nil {
		return abort("write record", err)
	}
	if err := recFd.Sync(); err != nil {
		return abort("fsync record", err)
	}

	if f.logger != nil {
		f.logger.WithField("txid", id).Debugf("journal record durable, applying %d ops", len(tx.ops))
	}

	// Step 7: apply. A short write or error here leaves the record on
	// disk for recovery; we do not attempt partial rollback.
	for i := range tx.ops {
		op := &tx.ops[i]
		if _, err := jioio.Spwrite(f.fd, op.New, op.Offset); err != nil {
			cleanupLocks()
			unlockRange(recFd, 0, 0)
			if f.metrics != nil {
				f.metrics.CommitErrors.Add(1)
			}
			return ioErr("apply operation", err)
		}
	}

	// Step 8: mark committed.
	tx.flags |= Committed
	tx.state = txCommitted

	// Step 9: reclaim — unlink the record, free the id, release locks.
	os.Remove(recPath)
	f.journal.Free(id)
	cleanupLocks()
	unlockRange(recFd, 0, 0)

	if f.metrics != nil {
		f.metrics.Commits.Add(1)
	}
	return nil
}
