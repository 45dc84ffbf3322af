package session

import (
	"testing"

	"feedcut/internal/feedapi"
)

func inputs(titles ...string) []feedapi.Episode {
	out := make([]feedapi.Episode, len(titles))
	for i, title := range titles {
		out[i] = feedapi.Episode{Title: title}
	}
	return out
}

func titles(eps []Episode) []string {
	out := make([]string, len(eps))
	for i, ep := range eps {
		out[i] = ep.Title
	}
	return out
}

func equalTitles(got []Episode, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, ep := range got {
		if ep.Title != want[i] {
			return false
		}
	}
	return true
}

func TestNewCollection_AssignsPositionalIDs(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C"))

	eps := c.Episodes()
	if len(eps) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(eps))
	}
	for i, ep := range eps {
		if ep.ID != i {
			t.Fatalf("episode %q: expected id %d, got %d", ep.Title, i, ep.ID)
		}
		if ep.Skip {
			t.Fatalf("episode %q: expected skip=false after load", ep.Title)
		}
	}

	orig := c.originalOrder()
	for i := range eps {
		if eps[i].ID != orig[i].ID {
			t.Fatalf("current is not load order immediately after load: %v vs %v", titles(eps), titles(orig))
		}
	}
}

func TestReverse_IsInvolution(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C", "D"))

	c.Reverse()
	if !equalTitles(c.Episodes(), "D", "C", "B", "A") {
		t.Fatalf("unexpected order after reverse: %v", titles(c.Episodes()))
	}
	if !equalTitles(c.originalOrder(), "A", "B", "C", "D") {
		t.Fatalf("reverse touched original order: %v", titles(c.originalOrder()))
	}

	c.Reverse()
	if !equalTitles(c.Episodes(), "A", "B", "C", "D") {
		t.Fatalf("double reverse did not restore order: %v", titles(c.Episodes()))
	}
}

func TestReverse_PreservesIDsAndSkip(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C"))
	c.SetIncluded(1, false)

	c.Reverse()

	seen := make(map[int]bool)
	for _, ep := range c.Episodes() {
		if seen[ep.ID] {
			t.Fatalf("duplicate id %d after reverse", ep.ID)
		}
		seen[ep.ID] = true
	}
	if len(seen) != 3 {
		t.Fatalf("lost episodes after reverse: %d ids", len(seen))
	}
	for _, ep := range c.Episodes() {
		if ep.ID == 1 && !ep.Skip {
			t.Fatal("skip flag lost through reverse")
		}
		if ep.ID != 1 && ep.Skip {
			t.Fatalf("skip flag leaked to id %d", ep.ID)
		}
	}
}

func TestBulkSelection(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C"))

	c.ClearSelection()
	if got := c.SelectedCount(); got != 0 {
		t.Fatalf("expected 0 selected after clear, got %d", got)
	}

	c.SelectAll()
	if got := c.SelectedCount(); got != 3 {
		t.Fatalf("expected 3 selected after select all, got %d", got)
	}

	c.ClearSelection()
	c.SelectVisible([]int{0, 2})
	selected := c.Selected()
	if !equalTitles(selected, "A", "C") {
		t.Fatalf("unexpected selection: %v", titles(selected))
	}
}

func TestSelectVisible_LeavesOthersUntouched(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C"))
	c.SetIncluded(1, false) // exclude B

	c.SelectVisible([]int{0})

	for _, ep := range c.Episodes() {
		switch ep.ID {
		case 1:
			if !ep.Skip {
				t.Fatal("select-visible re-included an episode outside the set")
			}
		default:
			if ep.Skip {
				t.Fatalf("episode %q unexpectedly excluded", ep.Title)
			}
		}
	}
}

func TestSelectVisible_Idempotent(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C"))
	c.ClearSelection()

	c.SelectVisible([]int{0, 1})
	first := titles(c.Selected())
	c.SelectVisible([]int{0, 1})
	second := titles(c.Selected())

	if len(first) != 2 || len(second) != len(first) {
		t.Fatalf("repeated select-visible changed the selection: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated select-visible changed the selection: %v vs %v", first, second)
		}
	}
}

func TestSetIncluded_UnknownIDIsNoOp(t *testing.T) {
	c := NewCollection(inputs("A"))

	c.SetIncluded(99, false)
	c.SetIncluded(-1, false)

	if got := c.SelectedCount(); got != 1 {
		t.Fatalf("stray toggle changed selection: %d selected", got)
	}
}

func TestSelected_FollowsCurrentOrderAfterReorder(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C"))
	c.Reverse()

	if !equalTitles(c.Selected(), "C", "B", "A") {
		t.Fatalf("selected does not follow current order: %v", titles(c.Selected()))
	}
}

func TestRestoreOrder(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C"))
	c.Reverse()
	c.SetIncluded(0, false)

	c.RestoreOrder()

	if !equalTitles(c.Episodes(), "A", "B", "C") {
		t.Fatalf("restore did not return to load order: %v", titles(c.Episodes()))
	}
	for _, ep := range c.Episodes() {
		if ep.ID == 0 && !ep.Skip {
			t.Fatal("restore touched a skip flag")
		}
	}
}

func TestScenario_ReverseFilterSelect(t *testing.T) {
	c := NewCollection(inputs("A", "B", "C"))

	c.Reverse()
	if !equalTitles(c.Episodes(), "C", "B", "A") {
		t.Fatalf("unexpected order after reverse: %v", titles(c.Episodes()))
	}

	c.ClearSelection()
	c.SelectVisible(VisibleIDs(c, "B"))

	selected := c.Selected()
	if !equalTitles(selected, "B") {
		t.Fatalf("expected only B selected, got %v", titles(selected))
	}
}
