package libjio

// Rollback reverts a previously committed transaction by building and
// committing a reverse transaction that writes each operation's captured
// undo payload back to its original offset, truncating first if the
// original operation extended the file. It requires the transaction to
// still hold its captured undo payloads in memory — rollback cannot be
// performed after a process restart, since the undo bytes are never
// persisted in the journal record (see SPEC_FULL.md §4.4, §4.7).
//
// Rollback is dangerous if anything else has written to the same ranges
// since the original commit: that conflict is the caller's responsibility
// to avoid, not something this library detects.
func (tx *Transaction) Rollback() error {
	tx.mu.Lock()
	f := tx.file
	if tx.state != txCommitted {
		tx.mu.Unlock()
		return ErrInvalidState
	}
	if f.flags&NoRollback != 0 {
		tx.mu.Unlock()
		return newErr(CodeInvalidState, "rollback disabled by NoRollback", nil)
	}
	ops := make([]Operation, len(tx.ops))
	copy(ops, tx.ops)
	tx.mu.Unlock()

	rtx := NewTransaction(f)
	rtx.flags |= RollingBack
	for _, op := range ops {
		if op.Plen < len(op.New) {
			if err := f.fd.Truncate(op.Offset + int64(op.Plen)); err != nil {
				return ioErr("truncate before rollback", err)
			}
		}
		if _, err := rtx.Add(op.Undo[:op.Plen], op.Offset); err != nil {
			return err
		}
	}

	if err := rtx.Commit(); err != nil {
		return err
	}

	tx.mu.Lock()
	tx.flags |= RolledBack
	tx.state = txRolledBack
	tx.mu.Unlock()

	if f.metrics != nil {
		f.metrics.Rollbacks.Add(1)
	}
	return nil
}
