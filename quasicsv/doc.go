// Package quasicsv splits the partially quoted CSV dialect used by pixel-vector
// datasets into raw rows.
//
// Each data line looks like
//
//	"<v1>,<v2>,...,<vn>",<label>
//
// The vector is quoted because it contains commas; the label is not. The split is a
// heuristic over quote boundaries, not an RFC 4180 parser: escaped quotes are not
// recognized and a label may only contain commas when the line has no `",` sequence.
package quasicsv
