// SPDX-License-Identifier: MIT

// Package rawshape maps flat covariance-axis indices to coordinates in the
// N-dimensional data array the covariance describes, and back.
//
// Flattening is row-major (C order): the last axis varies fastest. For a raw
// shape (3, 2), flat index 4 is coordinate (2, 0) and (2, 0) is flat index 4.
//
// Shapes serialize as Python tuple text ("(3, 2)", "(5,)"), the form stored
// under the COVSHAPE and COVRWSHP metadata keys; Parse reads it back.
//
// Selectors (All, Slice, Index, Indices) describe a sub-array of the raw data
// and Select turns them into the ordered list of flat indices they cover.
package rawshape
