package trap

// Unpivot duplicates every record into an odor row and a solvent row.
// All odor rows come first, followed by all solvent rows, each in input order.
func Unpivot(recs []Record) []LongRecord {
	out := make([]LongRecord, 0, 2*len(recs))
	for _, tt := range TrapTypes {
		for _, r := range recs {
			lr := LongRecord{
				StartTime:    r.StartTime,
				Stage:        r.Stage,
				OdorPosition: r.OdorPosition,
				Odor:         r.Odor,
				Trap:         tt,
			}
			if tt == TrapOdor {
				lr.Pct = r.OdorPct
			} else {
				lr.Pct = r.ControlPct
			}
			out = append(out, lr)
		}
	}
	return out
}

// CategoryCount is the number of odor-trap observations for one odor.
type CategoryCount struct {
	Category string
	Count    int
}

// SampleCounts counts odor-type rows per category, in the given order.
// Categories with no rows report 0. An empty order uses Categories(long).
func SampleCounts(long []LongRecord, order []string) []CategoryCount {
	if len(order) == 0 {
		order = Categories(long)
	}
	n := make(map[string]int, len(order))
	for _, lr := range long {
		if lr.Trap == TrapOdor {
			n[lr.Odor]++
		}
	}
	out := make([]CategoryCount, len(order))
	for i, c := range order {
		out[i] = CategoryCount{Category: c, Count: n[c]}
	}
	return out
}

// Categories lists distinct odor names in first-appearance order.
func Categories(long []LongRecord) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, lr := range long {
		if _, ok := seen[lr.Odor]; ok {
			continue
		}
		seen[lr.Odor] = struct{}{}
		out = append(out, lr.Odor)
	}
	return out
}

// Values returns the percentages for one odor and trap type, in row order.
func Values(long []LongRecord, category string, tt TrapType) []float64 {
	var out []float64
	for _, lr := range long {
		if lr.Odor == category && lr.Trap == tt {
			out = append(out, lr.Pct)
		}
	}
	return out
}
