// Package state holds pure cursor and scrolling math for the TUI so
// the model's Update stays about transitions, not arithmetic.
package state

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is how far a page up/down jumps given the terminal height
// and whether a status line is eating rows.
func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

// CenteredWindow picks the [start, end) slice of rows to display so
// the cursor stays vertically centered where possible.
func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// ScrollTop clamps a scroll offset so the last page is always full.
func ScrollTop(top, totalRows, height int) int {
	if totalRows <= 0 || height <= 0 {
		return 0
	}
	maxTop := totalRows - height
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		return maxTop
	}
	if top < 0 {
		return 0
	}
	return top
}
