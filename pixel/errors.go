package pixel

import (
	"errors"
	"fmt"
)

var (
	// ErrNotANumber means a token has no leading integer; it decodes to 0.
	ErrNotANumber = errors.New("not a base-10 integer")
	// ErrTrailingData means a token has characters after its integer prefix.
	ErrTrailingData = errors.New("trailing characters after integer")
)

// NumericParseWarning reports a vector token that is not a clean integer.
//
// It is non-fatal: the token decodes to 0 (ErrNotANumber) or to its integer
// prefix (ErrTrailingData).
type NumericParseWarning struct {
	// Index is the token position within the vector.
	Index int
	// Token is the raw, untrimmed token text.
	Token string
	cause error
}

func (w *NumericParseWarning) Error() string {
	return fmt.Sprintf("token %d %q: %v", w.Index, w.Token, w.cause)
}

func (w *NumericParseWarning) Unwrap() error { return w.cause }

// Substituted reports whether the token was replaced with 0.
func (w *NumericParseWarning) Substituted() bool {
	return errors.Is(w.cause, ErrNotANumber)
}
