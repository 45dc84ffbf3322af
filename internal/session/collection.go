package session

import "feedcut/internal/feedapi"

// Episode is one podcast entry as it exists inside an editing session.
// ID is assigned from the load-order position and never changes; Skip
// is the only field that mutates after load.
type Episode struct {
	ID           int
	Title        string
	Published    string
	Description  string // raw feed HTML, untrusted until sanitized for display
	Image        string
	Link         string
	EnclosureURL string
	Skip         bool
}

// Collection holds every episode of the session in a single arena
// indexed by ID. The original and current orderings are sequences of
// IDs into that arena, so inclusion state has exactly one home and
// reordering can never duplicate or lose an episode.
type Collection struct {
	arena    []Episode
	original []int
	current  []int
}

func NewCollection(inputs []feedapi.Episode) *Collection {
	c := &Collection{
		arena:    make([]Episode, len(inputs)),
		original: make([]int, len(inputs)),
		current:  make([]int, len(inputs)),
	}
	for i, in := range inputs {
		c.arena[i] = Episode{
			ID:           i,
			Title:        in.Title,
			Published:    in.Published,
			Description:  in.Description,
			Image:        in.Image,
			Link:         in.Link,
			EnclosureURL: in.EnclosureURL,
		}
		c.original[i] = i
		c.current[i] = i
	}
	return c
}

func (c *Collection) Len() int {
	return len(c.arena)
}

// Episodes returns the episodes in current order.
func (c *Collection) Episodes() []Episode {
	out := make([]Episode, 0, len(c.current))
	for _, id := range c.current {
		out = append(out, c.arena[id])
	}
	return out
}

// originalOrder returns the episodes exactly as loaded. Inclusion
// state is shared with the current view; only the ordering differs.
func (c *Collection) originalOrder() []Episode {
	out := make([]Episode, 0, len(c.original))
	for _, id := range c.original {
		out = append(out, c.arena[id])
	}
	return out
}

// Reverse flips the current ordering. The original ordering and every
// Skip flag are untouched.
func (c *Collection) Reverse() {
	for i, j := 0, len(c.current)-1; i < j; i, j = i+1, j-1 {
		c.current[i], c.current[j] = c.current[j], c.current[i]
	}
}

// RestoreOrder resets the current ordering back to load order without
// touching inclusion state.
func (c *Collection) RestoreOrder() {
	copy(c.current, c.original)
}

func (c *Collection) SelectAll() {
	for i := range c.arena {
		c.arena[i].Skip = false
	}
}

func (c *Collection) ClearSelection() {
	for i := range c.arena {
		c.arena[i].Skip = true
	}
}

// SelectVisible includes every episode whose ID is in ids and leaves
// all the others as they are.
func (c *Collection) SelectVisible(ids []int) {
	for _, id := range ids {
		if id >= 0 && id < len(c.arena) {
			c.arena[id].Skip = false
		}
	}
}

// SetIncluded sets the inclusion state of one episode. An unknown ID
// is a no-op: the ID space is internal, so this should not happen, but
// a stray ID must not crash the session.
func (c *Collection) SetIncluded(id int, included bool) {
	if id < 0 || id >= len(c.arena) {
		return
	}
	c.arena[id].Skip = !included
}

// Selected returns the included episodes in current order. This is the
// exact set and order submitted for rendering.
func (c *Collection) Selected() []Episode {
	out := make([]Episode, 0, len(c.current))
	for _, id := range c.current {
		if !c.arena[id].Skip {
			out = append(out, c.arena[id])
		}
	}
	return out
}

// SelectedCount avoids building the slice when only the number is needed.
func (c *Collection) SelectedCount() int {
	n := 0
	for i := range c.arena {
		if !c.arena[i].Skip {
			n++
		}
	}
	return n
}
