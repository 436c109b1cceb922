package jiopath

import (
	"encoding/binary"
	"os"

	"github.com/Patrickaos/libjio/internal/jiolock"
	"github.com/Patrickaos/libjio/mmap"
)

// Journal owns the sidecar directory for a data file: its lock file and a
// shared-memory window over the first CounterSize bytes of that lock file,
// which holds the highest transaction id assigned so far. The mmap is
// purely a fast-read optimization — every access to the counter, mapped or
// not, happens while the lock file's whole-file byte-range lock is held, so
// the mapping is never a separate source of truth from the bytes on disk.
type Journal struct {
	Dir     string
	file    *os.File
	counter *mmap.Map
}

// Open creates (tolerating pre-existence) the journal directory and its
// lock file for dataPath, or for jdirOverride if non-empty, initializing
// the counter to 1 the first time the lock file is created.
func Open(dataPath string, jdirOverride string) (*Journal, error) {
	jdir := jdirOverride
	if jdir == "" {
		jdir = Dir(dataPath)
	}

	if err := os.MkdirAll(jdir, DirMode); err != nil {
		return nil, err
	}

	lockPath := LockPath(jdir)
	f, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, RecordMode)
	if err != nil {
		return nil, err
	}

	if err := jiolock.Lock(int(f.Fd()), 0, 0); err != nil {
		f.Close()
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		jiolock.Unlock(int(f.Fd()), 0, 0)
		f.Close()
		return nil, err
	}
	if fi.Size() < CounterSize {
		if err := f.Truncate(CounterSize); err != nil {
			jiolock.Unlock(int(f.Fd()), 0, 0)
			f.Close()
			return nil, err
		}
		buf := make([]byte, CounterSize)
		binary.LittleEndian.PutUint32(buf, 1)
		if _, err := f.WriteAt(buf, 0); err != nil {
			jiolock.Unlock(int(f.Fd()), 0, 0)
			f.Close()
			return nil, err
		}
	}

	counter, err := mmap.New(int(f.Fd()), 0, CounterSize, true)
	if err != nil {
		jiolock.Unlock(int(f.Fd()), 0, 0)
		f.Close()
		return nil, err
	}

	if err := jiolock.Unlock(int(f.Fd()), 0, 0); err != nil {
		counter.Close()
		f.Close()
		return nil, err
	}

	return &Journal{Dir: jdir, file: f, counter: counter}, nil
}

// Close releases the lock file descriptor and its mapping. It leaves the
// journal directory and any record files in place.
func (j *Journal) Close() error {
	if j.counter != nil {
		j.counter.Close()
	}
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}

func (j *Journal) readCounter() uint32 {
	return binary.LittleEndian.Uint32(j.counter.Data())
}

func (j *Journal) writeCounter(v uint32) {
	binary.LittleEndian.PutUint32(j.counter.Data(), v)
}

// Alloc allocates a new transaction id: max+1, wrapping from the maximum
// uint32 value back to 1. It returns 0 on any I/O failure, which the lock
// file's whole-file exclusive lock guarantees is always released before
// returning regardless of where the failure occurred.
func (j *Journal) Alloc() (uint32, error) {
	if err := jiolock.Lock(int(j.file.Fd()), 0, 0); err != nil {
		return 0, err
	}
	defer jiolock.Unlock(int(j.file.Fd()), 0, 0)

	next := j.readCounter() + 1
	if next == 0 {
		next = 1
	}
	j.writeCounter(next)
	return next, nil
}

// Free releases id. If id is the current maximum, the new maximum becomes
// the largest id below it whose record file still exists on disk (probed
// via RecordPath); freeing anything else is a no-op, since the counter
// only ever needs to track the high-water mark.
func (j *Journal) Free(id uint32) error {
	if err := jiolock.Lock(int(j.file.Fd()), 0, 0); err != nil {
		return err
	}
	defer jiolock.Unlock(int(j.file.Fd()), 0, 0)

	cur := j.readCounter()
	if id != cur {
		return nil
	}

	newMax := uint32(0)
	for i := cur - 1; i > 0; i-- {
		if _, err := os.Stat(RecordPath(j.Dir, i)); err == nil {
			newMax = i
			break
		}
	}
	j.writeCounter(newMax)
	return nil
}

// Max returns the current high-water mark without allocating.
func (j *Journal) Max() (uint32, error) {
	if err := jiolock.Lock(int(j.file.Fd()), 0, 0); err != nil {
		return 0, err
	}
	defer jiolock.Unlock(int(j.file.Fd()), 0, 0)
	return j.readCounter(), nil
}

// SetMax forcibly rewrites the counter, used by recovery to re-anchor the
// high-water mark to the largest surviving record filename before replay
// begins (so replay-issued allocations never collide with survivors).
func (j *Journal) SetMax(v uint32) error {
	if err := jiolock.Lock(int(j.file.Fd()), 0, 0); err != nil {
		return err
	}
	defer jiolock.Unlock(int(j.file.Fd()), 0, 0)
	j.writeCounter(v)
	return nil
}
