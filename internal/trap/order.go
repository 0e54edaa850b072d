package trap

import "sort"

// Ordering maps odor names to plot rank. Names not listed have no rank.
type Ordering struct {
	names []string
	rank  map[string]int
}

// NewOrdering builds an ordering from an ordered list. Duplicates keep their first rank.
func NewOrdering(names []string) Ordering {
	o := Ordering{rank: make(map[string]int, len(names))}
	for _, n := range names {
		if _, ok := o.rank[n]; ok {
			continue
		}
		o.rank[n] = len(o.names)
		o.names = append(o.names, n)
	}
	return o
}

// Names returns the ordered, de-duplicated list.
func (o Ordering) Names() []string {
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}

// Len reports the number of ranked names.
func (o Ordering) Len() int { return len(o.names) }

// rankOf returns the position of name and whether it is listed.
func (o Ordering) rankOf(name string) (int, bool) {
	r, ok := o.rank[name]
	return r, ok
}

// Sort returns records stably ordered by rank. Unlisted odors follow every
// listed odor in their input order, or are removed when dropUnlisted is set.
// An empty ordering lists nothing to drop, so it keeps every record.
func (o Ordering) Sort(recs []Record, dropUnlisted bool) []Record {
	drop := dropUnlisted && o.Len() > 0
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if _, ok := o.rankOf(r.Odor); !ok && drop {
			continue
		}
		out = append(out, r)
	}
	if o.Len() == 0 {
		return out
	}
	key := func(name string) int {
		if r, ok := o.rankOf(name); ok {
			return r
		}
		return len(o.names)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i].Odor) < key(out[j].Odor)
	})
	return out
}

// Categories returns the plot order: listed names first, then any unlisted
// odors present in long in first-appearance order. As in Sort, dropUnlisted
// has no effect on an empty ordering.
func (o Ordering) Categories(long []LongRecord, dropUnlisted bool) []string {
	cats := o.Names()
	if dropUnlisted && o.Len() > 0 {
		return cats
	}
	for _, c := range Categories(long) {
		if _, ok := o.rankOf(c); !ok {
			cats = append(cats, c)
		}
	}
	return cats
}
