package trap

import "testing"

func odors(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Odor
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOrderingSortUnlistedLast(t *testing.T) {
	recs := []Record{{Row: 1, Odor: "Z"}, {Row: 2, Odor: "B"}, {Row: 3, Odor: "Y"}, {Row: 4, Odor: "A"}, {Row: 5, Odor: "B"}}
	o := NewOrdering([]string{"A", "B", "A"})
	if o.Len() != 2 {
		t.Fatalf("expected duplicates removed, got %v", o.Names())
	}
	got := o.Sort(recs, false)
	if want := []string{"A", "B", "B", "Z", "Y"}; !equalStrings(odors(got), want) {
		t.Fatalf("got %v want %v", odors(got), want)
	}
	if got[1].Row != 2 || got[2].Row != 5 {
		t.Fatalf("sort is not stable: %+v", got)
	}
	if recs[0].Odor != "Z" {
		t.Fatalf("input was mutated")
	}
}

func TestOrderingSortDropUnlisted(t *testing.T) {
	recs := []Record{{Odor: "Z"}, {Odor: "B"}, {Odor: "A"}}
	got := NewOrdering([]string{"A", "B"}).Sort(recs, true)
	if want := []string{"A", "B"}; !equalStrings(odors(got), want) {
		t.Fatalf("got %v want %v", odors(got), want)
	}
}

func TestOrderingEmptyKeepsInputOrder(t *testing.T) {
	recs := []Record{{Odor: "Z"}, {Odor: "B"}}
	got := NewOrdering(nil).Sort(recs, false)
	if want := []string{"Z", "B"}; !equalStrings(odors(got), want) {
		t.Fatalf("got %v want %v", odors(got), want)
	}
}

func TestOrderingCategories(t *testing.T) {
	long := []LongRecord{{Odor: "Q"}, {Odor: "B"}, {Odor: "Q"}}
	o := NewOrdering([]string{"A", "B"})
	if got, want := o.Categories(long, false), []string{"A", "B", "Q"}; !equalStrings(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got, want := o.Categories(long, true), []string{"A", "B"}; !equalStrings(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if r, ok := o.rankOf("B"); !ok || r != 1 {
		t.Fatalf("unexpected rank %d %v", r, ok)
	}
	if _, ok := o.rankOf("Q"); ok {
		t.Fatalf("Q should be unranked")
	}
}

func TestOrderingEmptyDropKeepsEverything(t *testing.T) {
	recs := []Record{{Odor: "Z"}, {Odor: "B"}}
	o := NewOrdering(nil)
	if got := o.Sort(recs, true); !equalStrings(odors(got), []string{"Z", "B"}) {
		t.Fatalf("empty ordering dropped records: %v", odors(got))
	}
	long := []LongRecord{{Odor: "Z"}, {Odor: "B"}}
	if got := o.Categories(long, true); !equalStrings(got, []string{"Z", "B"}) {
		t.Fatalf("empty ordering dropped categories: %v", got)
	}
}
