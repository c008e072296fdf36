// SPDX-License-Identifier: MIT

// Package table is a small columnar table with ordered key/value metadata.
//
// Columns are typed (integer or float) and may carry several values per row
// (Width > 1), which is how multi-dimensional coordinate indices are stored.
// Metadata keys keep insertion order so serialized headers are reproducible.
package table
