// Package fsck implements crash recovery for a libjio-journaled data file:
// scanning its sidecar journal directory for surviving transaction records
// and replaying them, plus wiping the journal once recovery (or a clean
// shutdown) has made it unnecessary. It mirrors the split between
// check.c's jfsck and jfsck_cleanup in the original C implementation.
package fsck

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/Patrickaos/libjio/internal/jiolock"
	"github.com/Patrickaos/libjio/internal/jiopath"
	"github.com/Patrickaos/libjio/mmap"

	libjio "github.com/Patrickaos/libjio"
)

// Result tallies the outcome of a Check pass.
type Result struct {
	// Total is the number of ids examined, from 1 through the largest
	// numeric record filename in the journal directory, including ids
	// whose record file is missing.
	Total int
	// Broken counts ids whose record file could not even be read.
	Broken int
	// Corrupt counts records that were read but failed checksum or
	// header validation.
	Corrupt int
	// InProgress counts ids whose record file is still locked by
	// another process — almost certainly a transaction committing
	// concurrently with Check, left untouched.
	InProgress int
	// ApplyError counts records that parsed cleanly but failed to
	// reapply.
	ApplyError int
	// Reapplied counts records successfully replayed to the data file.
	Reapplied int
}

// Check scans path's journal directory for surviving transaction records
// and replays each one found in good condition. It never deletes the
// record files it examines, successful or not — only Cleanup does that, as
// a separate explicit step performed once the caller is satisfied
// recovery is complete.
func Check(path string, opts ...libjio.Option) (Result, error) {
	var res Result

	jdir := jiopath.Dir(path)
	if _, err := os.Stat(jdir); err != nil {
		return res, libjio.ErrNoJournal
	}

	f, err := libjio.Open(path, os.O_RDWR, 0, 0, opts...)
	if err != nil {
		return res, err
	}
	defer f.Close()

	journal, err := jiopath.Open(path, "")
	if err != nil {
		return res, libjio.ErrNoJournal
	}
	defer journal.Close()

	entries, err := os.ReadDir(jdir)
	if err != nil {
		return res, err
	}

	var maxID uint32
	for _, e := range entries {
		if e.Name() == jiopath.JournalName {
			continue
		}
		id, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		if uint32(id) > maxID {
			maxID = uint32(id)
		}
	}
	if err := journal.SetMax(maxID); err != nil {
		return res, err
	}

	res.Total = int(maxID)
	for id := uint32(1); id <= maxID; id++ {
		recPath := jiopath.RecordPath(jdir, id)

		recFd, err := os.OpenFile(recPath, os.O_RDWR, jiopath.RecordMode)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			res.Broken++
			continue
		}

		locked, err := jiolock.TryLock(int(recFd.Fd()), 0, 0)
		if err != nil {
			recFd.Close()
			res.Broken++
			continue
		}
		if !locked {
			recFd.Close()
			res.InProgress++
			continue
		}

		fi, err := recFd.Stat()
		if err != nil || fi.Size() == 0 {
			jiolock.Unlock(int(recFd.Fd()), 0, 0)
			recFd.Close()
			res.Broken++
			continue
		}

		m, err := mmap.New(int(recFd.Fd()), 0, int(fi.Size()), false)
		if err != nil {
			jiolock.Unlock(int(recFd.Fd()), 0, 0)
			recFd.Close()
			res.Broken++
			continue
		}

		rec, err := libjio.ParseRecord(m.Data())
		m.Close()
		jiolock.Unlock(int(recFd.Fd()), 0, 0)
		recFd.Close()
		if err != nil {
			res.Corrupt++
			if f.Metrics() != nil {
				f.Metrics().Corrupt.Add(1)
			}
			continue
		}

		if err := libjio.ReplayRecord(f, rec); err != nil {
			res.ApplyError++
			continue
		}
		res.Reapplied++
		if f.Metrics() != nil {
			f.Metrics().Reapplied.Add(1)
		}
	}

	return res, nil
}

// Cleanup removes every file in path's journal directory — the lock file
// and every surviving numbered record — and then the directory itself.
// Filenames it doesn't recognize (neither "lock" nor a decimal integer)
// are left untouched, and the directory is not removed if any remain.
func Cleanup(path string) error {
	jdir := jiopath.Dir(path)

	entries, err := os.ReadDir(jdir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var leftover bool
	for _, e := range entries {
		name := e.Name()
		if name == jiopath.JournalName {
			os.Remove(jiopath.LockPath(jdir))
			continue
		}
		if _, err := strconv.ParseUint(name, 10, 32); err == nil {
			os.Remove(filepath.Join(jdir, name))
			continue
		}
		leftover = true
	}
	if leftover {
		return nil
	}
	return os.Remove(jdir)
}
