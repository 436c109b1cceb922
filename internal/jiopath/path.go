// Package jiopath derives the on-disk layout of a journal directory from a
// data file path and allocates/frees the monotonically increasing
// transaction ids recorded in its lock file.
package jiopath

import (
	"fmt"
	"path/filepath"
)

// JournalName is the fixed basename of the per-directory lock file.
const JournalName = "lock"

// CounterSize is the width of the id counter stored at offset 0 of the lock
// file: a 32-bit little-endian unsigned integer.
const CounterSize = 4

// DirMode is the permission mode used when creating a journal directory.
const DirMode = 0750

// RecordMode is the permission mode used when creating a record file.
const RecordMode = 0600

// Dir derives the journal directory for a data file path: /D/F becomes
// /D/.F.jio.
func Dir(dataPath string) string {
	dir := filepath.Dir(dataPath)
	base := filepath.Base(dataPath)
	return filepath.Join(dir, "."+base+".jio")
}

// LockPath returns the path of the lock file inside a journal directory.
func LockPath(jdir string) string {
	return filepath.Join(jdir, JournalName)
}

// RecordPath returns the path of the record file for transaction id within
// a journal directory. Record files are named by the decimal textual form
// of their id.
func RecordPath(jdir string, id uint32) string {
	return filepath.Join(jdir, fmt.Sprintf("%d", id))
}
