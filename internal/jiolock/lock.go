//go:build unix

// Package jiolock provides byte-range advisory locking on open files,
// mirroring libjio's plockf(): a blocking exclusive acquire, a non-blocking
// try-acquire, and a release, all anchored at an absolute offset from the
// start of the file (never relative to the current position, the way raw
// lockf() works).
package jiolock

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Lock blocks until it acquires an exclusive lock on [offset, offset+length)
// of fd. length == 0 means "to the end of the file".
func Lock(fd int, offset, length int64) error {
	return unix.FcntlFlock(uintptr(fd), unix.F_SETLKW, &unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: int16(syscall.SEEK_SET),
		Start:  offset,
		Len:    length,
	})
}

// TryLock attempts to acquire the same range as Lock without blocking. It
// returns (false, nil) if the range is already held by someone else, and
// (false, err) for any other failure.
func TryLock(fd int, offset, length int64) (bool, error) {
	err := unix.FcntlFlock(uintptr(fd), unix.F_SETLK, &unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: int16(syscall.SEEK_SET),
		Start:  offset,
		Len:    length,
	})
	if err == nil {
		return true, nil
	}
	if err == unix.EACCES || err == unix.EAGAIN {
		return false, nil
	}
	return false, err
}

// Unlock releases a previously acquired range.
func Unlock(fd int, offset, length int64) error {
	return unix.FcntlFlock(uintptr(fd), unix.F_SETLK, &unix.Flock_t{
		Type:   unix.F_UNLCK,
		Whence: int16(syscall.SEEK_SET),
		Start:  offset,
		Len:    length,
	})
}

// Range is one byte-range lock request.
type Range struct {
	Offset int64
	Length int64
}

// LockAscending acquires every range in ranges, in ascending offset order,
// regardless of the order they're given in. Acquiring disjoint ranges in a
// consistent global order is what lets two transactions touching different
// regions of the same file commit concurrently without deadlocking on each
// other's lock acquisition order.
//
// On failure it releases whatever it already acquired before returning.
func LockAscending(fd int, ranges []Range) error {
	ordered := append([]Range(nil), ranges...)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Offset < ordered[j-1].Offset; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	acquired := ordered[:0:0]
	for _, r := range ordered {
		if err := Lock(fd, r.Offset, r.Length); err != nil {
			for _, a := range acquired {
				_ = Unlock(fd, a.Offset, a.Length)
			}
			return err
		}
		acquired = append(acquired, r)
	}
	return nil
}

// UnlockAll releases every range in ranges, ignoring order.
func UnlockAll(fd int, ranges []Range) {
	for _, r := range ranges {
		_ = Unlock(fd, r.Offset, r.Length)
	}
}
