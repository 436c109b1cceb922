// Package libjio provides atomic, crash-consistent I/O on regular files.
//
// A caller opens a data file with Open, wraps each write — at an offset, at
// the current position, or vectored — in a Transaction, and commits it
// (File.Truncate changes the size directly and is not journaled). A
// transaction either becomes fully visible on the data file
// or leaves it unchanged; if the process crashes between those two
// outcomes, a sidecar journal directory records enough information for the
// fsck package to replay it on the next run.
//
// Basic usage:
//
//	f, err := libjio.Open("/var/lib/app/data", os.O_RDWR|os.O_CREATE, 0644, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	tx := libjio.NewTransaction(f)
//	tx.Add([]byte("hello"), 0)
//	if err := tx.Commit(); err != nil {
//	    log.Fatal(err)
//	}
//
// After an unclean shutdown, recovery is a separate step:
//
//	res, err := fsck.Check("/var/lib/app/data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Printf("replayed %d transactions", res.Reapplied)
//	fsck.Cleanup("/var/lib/app/data")
package libjio
