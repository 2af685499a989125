// Package library keeps the viewer's list page state. A page being loaded
// never blanks the list: the last good page stays visible until the new one
// arrives, and a failed load is reported next to it.
package library

import (
	"context"

	"github.com/zillusion/capsule/internal/listing"
)

// Fetcher loads one page from the server.
type Fetcher interface {
	Page(ctx context.Context, page, limit int) (*listing.Page, error)
}

// Key identifies a page query.
type Key struct {
	Page  int
	Limit int
}

// State is what the list view renders.
type State struct {
	// Key is the page most recently requested.
	Key Key
	// Data is the page on screen. It belongs to Key unless Stale.
	Data    *listing.Page
	Stale   bool
	Loading bool
	// Err is the failure of the last load for Key, shown with Data.
	Err error
}

// Pager tracks requested and shown pages. Loads are not retried. It is
// driven from a single event loop.
type Pager struct {
	fetch Fetcher
	limit int
	cache map[Key]*listing.Page

	key     Key
	shown   *listing.Page
	shownAt Key
	loading bool
	err     error
}

// NewPager uses limit for every page, normalized like the server does.
func NewPager(f Fetcher, limit int) *Pager {
	_, limit = listing.Normalize(1, limit)
	return &Pager{fetch: f, limit: limit, cache: make(map[Key]*listing.Page)}
}

// Request marks page as wanted and returns its key. A cached copy is shown
// at once while it revalidates.
func (p *Pager) Request(page int) Key {
	page, _ = listing.Normalize(page, p.limit)
	p.key = Key{Page: page, Limit: p.limit}
	p.loading = true
	p.err = nil
	if cached, ok := p.cache[p.key]; ok {
		p.shown, p.shownAt = cached, p.key
	}
	return p.key
}

// Fetch loads key. It touches no Pager state and may run off the event
// loop; hand its result to Resolve.
func (p *Pager) Fetch(ctx context.Context, key Key) (*listing.Page, error) {
	return p.fetch.Page(ctx, key.Page, key.Limit)
}

// Resolve applies a finished load. Successful pages are cached whatever
// their key; only the result for the current key changes what is shown.
// It reports whether the result was applied.
func (p *Pager) Resolve(key Key, page *listing.Page, err error) bool {
	if err == nil && page != nil {
		p.cache[key] = page
	}
	if key != p.key {
		return false
	}
	p.loading = false
	if err != nil {
		p.err = err
		return true
	}
	p.shown, p.shownAt = page, key
	return true
}

// Load requests page and waits for it.
func (p *Pager) Load(ctx context.Context, page int) State {
	key := p.Request(page)
	data, err := p.Fetch(ctx, key)
	p.Resolve(key, data, err)
	return p.State()
}

// Refresh reloads the current page, as after a new upload.
func (p *Pager) Refresh(ctx context.Context) State {
	page := p.key.Page
	if page == 0 {
		page = 1
	}
	return p.Load(ctx, page)
}

func (p *Pager) State() State {
	return State{
		Key:     p.key,
		Data:    p.shown,
		Stale:   p.shown != nil && p.shownAt != p.key,
		Loading: p.loading,
		Err:     p.err,
	}
}

// HasNext reports whether a page follows the shown one.
func (s State) HasNext() bool {
	return s.Data != nil && s.Data.Pagination.CurrentPage < s.Data.Pagination.TotalPages
}

// HasPrev reports whether a page precedes the shown one.
func (s State) HasPrev() bool {
	return s.Data != nil && s.Data.Pagination.CurrentPage > 1
}

// Items returns the shown rows, or nil.
func (s State) Items() []listing.Item {
	if s.Data == nil {
		return nil
	}
	return s.Data.Data
}
