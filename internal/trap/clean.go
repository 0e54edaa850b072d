package trap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumn indicates a required header is absent from the sheet.
	ErrMissingColumn = errors.New("missing required column")
	// ErrBadValue indicates a present cell that cannot be parsed.
	ErrBadValue = errors.New("malformed value")
	// ErrNoRecords indicates nothing survived filtering.
	ErrNoRecords = errors.New("no usable trap records")
)

// MissingColumnError names the absent headers.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumn, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// ValueError points to the offending cell.
type ValueError struct {
	Row    int
	Column string
	Value  string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: row %d column %q: %q", ErrBadValue, e.Row, e.Column, e.Value)
}

func (e *ValueError) Unwrap() error { return ErrBadValue }

// CleanOptions controls numeric parsing. Zero separators auto-detect per value.
type CleanOptions struct {
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// CleanStats reports how many rows each step removed.
type CleanStats struct {
	Rows     int
	Excluded int
	Missing  int
	Kept     int
}

// Clean keeps rows whose Exclude flag is false, projects the required columns
// and drops rows with any missing value. Output order follows the input.
func Clean(t *Table, opt CleanOptions) ([]Record, CleanStats, error) {
	var st CleanStats
	if t == nil {
		return nil, st, ErrNoRecords
	}
	idx := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, c := range RequiredColumns {
		i := t.Index(c)
		if i < 0 {
			missing = append(missing, c)
			continue
		}
		idx[c] = i
	}
	if len(missing) > 0 {
		return nil, st, &MissingColumnError{Columns: missing}
	}

	out := make([]Record, 0, len(t.Rows))
	for n, row := range t.Rows {
		st.Rows++
		rowNum := n + 1
		if excl, ok := parseFlag(row[idx[ColExclude]]); !ok || excl {
			st.Excluded++
			continue
		}
		cell := func(col string) string { return strings.TrimSpace(row[idx[col]]) }
		hasMissing := false
		for _, c := range RequiredColumns[:len(RequiredColumns)-1] {
			if isMissing(cell(c)) {
				hasMissing = true
				break
			}
		}
		if hasMissing {
			st.Missing++
			continue
		}
		rec := Record{
			Row:          rowNum,
			StartTime:    cell(ColStartTime),
			Stage:        cell(ColStage),
			OdorPosition: cell(ColOdorPosition),
			Odor:         cell(ColOdor),
			Control:      cell(ColControl),
		}
		counts := []struct {
			col string
			dst *int
		}{
			{ColFlies, &rec.Flies},
			{ColOdorFlies, &rec.OdorFlies},
			{ColControlFlies, &rec.ControlFlies},
		}
		for _, c := range counts {
			v, ok := parseCount(cell(c.col), opt.DecimalSeparator, opt.ThousandsSeparator)
			if !ok {
				return nil, st, &ValueError{Row: rowNum, Column: c.col, Value: cell(c.col)}
			}
			*c.dst = v
		}
		pcts := []struct {
			col string
			dst *float64
		}{
			{ColOdorPct, &rec.OdorPct},
			{ColControlPct, &rec.ControlPct},
		}
		for _, c := range pcts {
			v, ok := parseNumeric(cell(c.col), opt.DecimalSeparator, opt.ThousandsSeparator)
			if !ok {
				return nil, st, &ValueError{Row: rowNum, Column: c.col, Value: cell(c.col)}
			}
			*c.dst = v
		}
		out = append(out, rec)
	}
	st.Kept = len(out)
	return out, st, nil
}
