package libjio

// ReplayRecord reconstructs a Transaction from a Record parsed off a
// surviving journal file and commits it through the normal nine-step
// protocol: a fresh id is allocated, a fresh record is written and synced,
// and the operations are reapplied to the data file. It never reuses the
// id or record file rec was read from — those belong to the fsck package,
// which decides separately whether to leave them on disk or wipe them via
// Cleanup.
//
// Besides rec's operations and user payload, its persisted flags are
// carried forward, with RollingBack cleared unconditionally: that bit is meaningful only
// while a rollback's reverse transaction is itself mid-commit, and a
// record surviving to recovery time means that commit never finished, so
// the bit carries no information once read back from disk (see
// SPEC_FULL.md §9).
func ReplayRecord(f *File, rec *Record) error {
	tx := NewTransaction(f)
	tx.flags = rec.Flags &^ RollingBack
	tx.payload = rec.Payload
	for _, op := range rec.Ops {
		if _, err := tx.Add(op.New, op.Offset); err != nil {
			return err
		}
	}
	return tx.Commit()
}
