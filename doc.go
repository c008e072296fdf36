// Package lvcov is a toolkit for sparse covariance matrices of N-dimensional
// data: build them, inspect their correlation structure, slice them along
// the axes of the data they describe, and store them as self-describing files.
//
// What is inside?
//
//	covariance/   the Covariance type: upper-triangle storage, variance and
//	              correlation views, raw-shape index mapping, SubMatrix,
//	              coordinate tables, Write/Read
//	sparse/       immutable COO matrices (triangles, transpose, products)
//	rawshape/     row-major shapes, tuple text ("(3, 2)"), numpy-style selectors
//	table/        typed columns with ordered metadata
//	container/    named-section files (CBOR frame or SQLite), compression,
//	              BLAKE3 checksums, atomic writes
//	matrix/       dense matrices and sample statistics
//	cmd/covtool   command line front end
//
// Quick example:
//
//	c, _ := covariance.FromArray(rows, covariance.WithRawShape(3, 2))
//	sub, _ := c.SubMatrix(rawshape.Every(2))
//	_ = sub.Write(ctx, "sub.lvcov")
//
//	go get github.com/katalvlaran/lvcov
package lvcov
