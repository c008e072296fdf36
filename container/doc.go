// SPDX-License-Identifier: MIT

// Package container persists named sections (each with a keyword header and
// either an N-d float image or a columnar table) to a single file.
//
// Two on-disk formats are supported:
//
//	FormatCBOR    magic "LVCOV" + version + codec tag + length, then a
//	              compressed deterministic-CBOR document.
//	FormatSQLite  a SQLite database with sections, headers and payload blobs
//	              (pure-Go driver; disabled by the nosqlite build tag).
//
// Read sniffs the format from the leading bytes, so callers never need to
// say which one a file uses.
//
// Writes are all-or-nothing: the destination check happens first, the whole
// payload is encoded in memory, then bytes go to a temporary file in the
// target directory which is fsynced and renamed over the destination.
//
// Every section carries a DATASUM keyword (hex BLAKE3-256 of its canonical
// payload) and the primary section a FILEID (UUID). Read verifies DATASUM
// when present and fails with ErrChecksum on mismatch.
package container
