package trap

import (
	"math"
	"strconv"
	"strings"
)

// naValues mirrors the spellings a spreadsheet export uses for blank cells.
var naValues = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"<NA>":     {},
	"N/A":      {},
	"n/a":      {},
	"NA":       {},
	"NULL":     {},
	"null":     {},
	"NaN":      {},
	"nan":      {},
	"-NaN":     {},
	"-nan":     {},
	"None":     {},
}

func isMissing(s string) bool {
	_, ok := naValues[strings.TrimSpace(s)]
	return ok
}

// parseFlag reports (value, ok). Unparseable flags are not ok.
func parseFlag(s string) (bool, bool) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return b, true
}

// parseNumeric accepts a trailing percent sign and either decimal convention.
// A zero dec auto-detects from the last separator present.
func parseNumeric(s string, dec, thou rune) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseCount accepts integral numerics such as "12" or "12.0".
func parseCount(s string, dec, thou rune) (int, bool) {
	f, ok := parseNumeric(s, dec, thou)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
