package session

import "strings"

// Visible computes the filtered view of a collection: episodes whose
// title contains term case-insensitively, in current order. A blank
// term (after trimming) means no filter and returns the full current
// ordering. Pure: neither ordering nor inclusion state is touched.
func Visible(c *Collection, term string) []Episode {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return c.Episodes()
	}
	out := make([]Episode, 0, c.Len())
	for _, ep := range c.Episodes() {
		if strings.Contains(strings.ToLower(ep.Title), term) {
			out = append(out, ep)
		}
	}
	return out
}

// VisibleIDs is the ID projection of Visible. SelectVisible must be
// fed from here so "select filtered" and "what is shown" agree by
// construction.
func VisibleIDs(c *Collection, term string) []int {
	eps := Visible(c, term)
	ids := make([]int, len(eps))
	for i, ep := range eps {
		ids[i] = ep.ID
	}
	return ids
}
