// Package jiosum computes the trailing checksum stored in each journal
// record (see the root package's record.go). The polynomial is an
// implementation choice; what matters is that it is stable within this
// on-disk format version and catches torn writes.
package jiosum

import "hash/crc32"

// table is the standard IEEE polynomial, the same one used elsewhere in the
// ecosystem for on-disk record checksums (write-ahead logs, RPC framing).
var table = crc32.MakeTable(crc32.IEEE)

// Sum returns the checksum of buf.
func Sum(buf []byte) uint32 {
	return crc32.Checksum(buf, table)
}
