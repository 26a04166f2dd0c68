package logic

// Navigator handles cursor movement and viewport management over a flat list
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	totalItems     int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{viewportHeight: 1}
}

// UpdateState updates the navigator's state and clamps it to the list
func (n *Navigator) UpdateState(selectedIndex, viewportOffset, viewportHeight, totalItems int) {
	n.selectedIndex = selectedIndex
	n.viewportOffset = viewportOffset
	n.viewportHeight = viewportHeight
	if n.viewportHeight < 1 {
		n.viewportHeight = 1
	}
	n.totalItems = totalItems
	n.clampSelection()
	n.ensureSelectedVisible()
}

// SelectedIndex returns the current selected index
func (n *Navigator) SelectedIndex() int {
	return n.selectedIndex
}

// ViewportOffset returns the index of the first visible item
func (n *Navigator) ViewportOffset() int {
	return n.viewportOffset
}

// SetSelectedIndex sets the selected index and ensures it's visible
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	n.selectedIndex = index
	n.clampSelection()
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// Move applies a named movement and returns the new index and offset
func (n *Navigator) Move(direction string) (int, int) {
	pageSize := n.viewportHeight - 2 // Leave some overlap
	if pageSize < 1 {
		pageSize = 1
	}

	switch direction {
	case "up":
		return n.SetSelectedIndex(n.selectedIndex - 1)
	case "down":
		return n.SetSelectedIndex(n.selectedIndex + 1)
	case "pageup":
		return n.SetSelectedIndex(n.selectedIndex - pageSize)
	case "pagedown":
		return n.SetSelectedIndex(n.selectedIndex + pageSize)
	case "home":
		return n.SetSelectedIndex(0)
	case "end":
		return n.SetSelectedIndex(n.totalItems - 1)
	}
	return n.selectedIndex, n.viewportOffset
}

// MaxIndex returns the maximum selectable index, -1 for an empty list
func (n *Navigator) MaxIndex() int {
	return n.totalItems - 1
}

func (n *Navigator) clampSelection() {
	if n.selectedIndex > n.totalItems-1 {
		n.selectedIndex = n.totalItems - 1
	}
	if n.selectedIndex < 0 {
		n.selectedIndex = 0
	}
}

// ensureSelectedVisible adjusts the viewport to keep the selected item
// visible, reserving a line for each scroll indicator that will be shown.
func (n *Navigator) ensureSelectedVisible() {
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	effectiveHeight := n.effectiveHeight()

	if n.selectedIndex >= n.viewportOffset+effectiveHeight {
		n.viewportOffset = n.selectedIndex - effectiveHeight + 1
		// Scrolling may have introduced the top indicator
		effectiveHeight = n.effectiveHeight()
		if n.selectedIndex >= n.viewportOffset+effectiveHeight {
			n.viewportOffset = n.selectedIndex - effectiveHeight + 1
		}
	}

	maxOffset := n.totalItems - n.effectiveHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}

// effectiveHeight is the number of item lines left after scroll indicators
func (n *Navigator) effectiveHeight() int {
	h := n.viewportHeight
	if n.viewportOffset > 0 {
		h--
	}
	if n.viewportOffset+h < n.totalItems {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// VisibleRange returns the half-open range of items to render and whether
// the top and bottom scroll indicators are needed.
func (n *Navigator) VisibleRange() (start, end int, above, below bool) {
	h := n.effectiveHeight()
	start = n.viewportOffset
	end = start + h
	if end > n.totalItems {
		end = n.totalItems
	}
	return start, end, start > 0, end < n.totalItems
}
