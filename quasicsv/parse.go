package quasicsv

import (
	"strings"
)

// RawRow is one data line split into its vector and label parts.
// No validation happens at this stage.
type RawRow struct {
	// Index is the 0-based data-line number (the header is not counted).
	Index      int
	VectorText string
	LabelText  string
}

// Parse splits a header+rows blob into ordered raw rows.
//
// The header line is always dropped. A blank or header-only blob yields no rows and
// no errors. Lines that cannot be split are reported as *RowFormatError and skipped;
// they never abort the batch.
func Parse(blob string) ([]RawRow, []error) {
	lines := splitLines(blob)
	if len(lines) < 2 {
		return nil, nil
	}

	data := lines[1:]
	rows := make([]RawRow, 0, len(data))
	var errs []error

	for i, line := range data {
		row, err := ParseLine(line)
		if err != nil {
			errs = append(errs, &RowFormatError{Line: i, Text: line, cause: err})
			continue
		}
		row.Index = i
		rows = append(rows, row)
	}

	return rows, errs
}

// ParseLine splits a single data line.
//
// A line starting with a quote ends its vector at the first `",`. Without one, the
// last quote in the line is taken as the boundary, so the label may contain commas.
// When the leading quote is the only one, the vector is empty and the label starts
// at the third byte. An unquoted line is split at its last comma.
func ParseLine(line string) (RawRow, error) {
	if strings.HasPrefix(line, `"`) {
		if k := strings.Index(line[1:], `",`); k >= 0 {
			k++
			return RawRow{
				VectorText: line[1:k],
				LabelText:  strings.TrimSpace(line[k+2:]),
			}, nil
		}

		q := strings.LastIndex(line, `"`)
		vector := ""
		if q > 1 {
			vector = line[1:q]
		}
		label := ""
		if q+2 <= len(line) {
			label = strings.TrimSpace(line[q+2:])
		}
		return RawRow{VectorText: vector, LabelText: label}, nil
	}

	c := strings.LastIndex(line, ",")
	if c < 0 {
		return RawRow{}, ErrUnsplittable
	}

	return RawRow{
		VectorText: line[:c],
		LabelText:  strings.TrimSpace(line[c+1:]),
	}, nil
}

func splitLines(blob string) []string {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil
	}

	lines := strings.Split(blob, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
