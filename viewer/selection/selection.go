// Package selection keeps the selected record consistent with the list
// and the viewport. The viewer holds one Coordinator and passes it down;
// there is no package-level state.
package selection

import "github.com/zillusion/capsule/internal/listing"

// MobileBreakpoint is the width below which the viewer shows one pane.
const MobileBreakpoint = 768

type Mode int

const (
	Desktop Mode = iota
	Mobile
)

func (m Mode) String() string {
	if m == Mobile {
		return "mobile"
	}
	return "desktop"
}

// ModeFor derives the viewport mode from a width.
func ModeFor(width int) Mode {
	if width < MobileBreakpoint {
		return Mobile
	}
	return Desktop
}

// AutoSelect returns the selection after a list fetch: the first item when
// nothing is selected, else prev unchanged, even when prev is not in items.
func AutoSelect(prev *string, items []listing.Item) *string {
	if prev != nil || len(items) == 0 {
		return prev
	}
	id := items[0].ID
	return &id
}

// Coordinator owns the selected id and pane visibility.
type Coordinator struct {
	selected    *string
	mode        Mode
	listVisible bool
}

func NewCoordinator(width int) *Coordinator {
	return &Coordinator{mode: ModeFor(width), listVisible: true}
}

// Select chooses id. In mobile mode the list gives way to the detail pane.
func (c *Coordinator) Select(id string) {
	c.selected = &id
	if c.mode == Mobile {
		c.listVisible = false
	}
}

// ApplyPage runs AutoSelect on a fetched page and reports whether the
// selection changed.
func (c *Coordinator) ApplyPage(items []listing.Item) bool {
	next := AutoSelect(c.selected, items)
	changed := next != c.selected
	c.selected = next
	return changed
}

// Resize re-evaluates the mode. Leaving mobile always shows the list.
func (c *Coordinator) Resize(width int) {
	next := ModeFor(width)
	if c.mode == Mobile && next == Desktop {
		c.listVisible = true
	}
	c.mode = next
}

// ShowList returns to the list, as the back action in mobile mode.
func (c *Coordinator) ShowList() { c.listVisible = true }

// Accept reports whether a detail response for id may be applied: only
// the currently selected id is.
func (c *Coordinator) Accept(id string) bool {
	return c.selected != nil && *c.selected == id
}

func (c *Coordinator) Selected() (string, bool) {
	if c.selected == nil {
		return "", false
	}
	return *c.selected, true
}

func (c *Coordinator) Mode() Mode        { return c.mode }
func (c *Coordinator) ListVisible() bool { return c.listVisible }

// DetailVisible is true on desktop, and in mobile mode once the list is
// hidden.
func (c *Coordinator) DetailVisible() bool {
	return c.mode == Desktop || !c.listVisible
}
