package session

import "testing"

func TestVisible_BlankTermReturnsCurrentExactly(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C"))
	c.Reverse()

	for _, term := range []string{"", "   ", "\t"} {
		got := Visible(c, term)
		if !equalTitles(got, "C", "B", "A") {
			t.Fatalf("term %q: expected full current order, got %v", term, titles(got))
		}
	}
}

func TestVisible_CaseInsensitiveSubstring(t *testing.T) {
	c := NewCollection(inputs("Morning Show", "Evening Report", "morning recap"))

	got := Visible(c, "MORNING")
	if !equalTitles(got, "Morning Show", "morning recap") {
		t.Fatalf("unexpected matches: %v", titles(got))
	}
}

func TestVisible_TrimsTerm(t *testing.T) {
	c := NewCollection(inputs("Alpha", "Beta"))

	got := Visible(c, "  beta  ")
	if !equalTitles(got, "Beta") {
		t.Fatalf("unexpected matches: %v", titles(got))
	}
}

func TestVisible_PreservesRelativeOrder(t *testing.T) {
	c := NewCollection(inputs("ep one", "other", "ep two", "ep three"))
	c.Reverse()

	got := Visible(c, "ep")
	if !equalTitles(got, "ep three", "ep two", "ep one") {
		t.Fatalf("expected current-order subsequence, got %v", titles(got))
	}
}

func TestVisible_IsPure(t *testing.T) {
	c := NewCollection(inputs("A", "B"))
	c.SetIncluded(0, false)

	before := titles(c.Episodes())
	Visible(c, "a")
	after := titles(c.Episodes())

	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("filter mutated order: %v vs %v", before, after)
		}
	}
	if c.SelectedCount() != 1 {
		t.Fatal("filter mutated skip state")
	}
}

func TestVisibleIDs_MatchesVisible(t *testing.T) {
	c := NewCollection(inputs("A", "AB", "B"))

	eps := Visible(c, "a")
	ids := VisibleIDs(c, "a")
	if len(eps) != len(ids) {
		t.Fatalf("length mismatch: %d episodes, %d ids", len(eps), len(ids))
	}
	for i := range eps {
		if eps[i].ID != ids[i] {
			t.Fatalf("id mismatch at %d: %d vs %d", i, eps[i].ID, ids[i])
		}
	}
}
