// Package pixel decodes comma-separated grayscale intensity vectors.
package pixel

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// MinIntensity is the darkest representable gray level.
	MinIntensity = 0
	// MaxIntensity is the brightest representable gray level.
	MaxIntensity = 255
)

// Vector is a flattened, row-major sequence of grayscale intensities.
type Vector []uint8

// Tokens splits vector text on commas without trimming or parsing.
// Empty text has no tokens.
func Tokens(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, ",")
}

// Decode turns vector text into clamped intensities, one per token.
//
// Tokens that are not integers decode to 0 and produce a *NumericParseWarning.
// Warnings never stop decoding.
func Decode(text string) (Vector, []error) {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return Vector{}, nil
	}

	v := make(Vector, len(tokens))
	var warnings []error

	for i, tok := range tokens {
		n, err := ParseToken(tok)
		if err != nil {
			warnings = append(warnings, &NumericParseWarning{Index: i, Token: tok, cause: err})
		}
		v[i] = Clamp(n)
	}

	return v, warnings
}

// ParseToken parses the leading base-10 integer of a whitespace-trimmed token.
//
// A token without leading digits returns 0 and ErrNotANumber. Trailing characters
// after the digits keep the parsed prefix and return ErrTrailingData. Magnitudes
// beyond int64 saturate.
func ParseToken(tok string) (int64, error) {
	s := strings.TrimSpace(tok)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, ErrNotANumber
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			return 0, ErrNotANumber
		}
		n = math.MaxInt64
		if s[0] == '-' {
			n = math.MinInt64
		}
	}

	if end < len(s) {
		return n, ErrTrailingData
	}
	return n, nil
}

// Clamp bounds n into [MinIntensity, MaxIntensity].
func Clamp(n int64) uint8 {
	switch {
	case n < MinIntensity:
		return MinIntensity
	case n > MaxIntensity:
		return MaxIntensity
	default:
		return uint8(n)
	}
}
