package quasicsv

import (
	"errors"
	"fmt"
)

// ErrUnsplittable is returned by ParseLine for a line with neither a leading quote
// nor any comma.
var ErrUnsplittable = errors.New("line has no leading quote and no comma")

// RowFormatError reports a data line that could not be split into vector and label.
//
// The row is skipped; other rows are unaffected.
type RowFormatError struct {
	// Line is the 0-based data-line number (header excluded).
	Line int
	// Text is the offending line.
	Text  string
	cause error
}

func (e *RowFormatError) Error() string {
	return fmt.Sprintf("row %d: malformed line %q", e.Line, truncate(e.Text, 32))
}

func (e *RowFormatError) Unwrap() error { return e.cause }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
