package listing

import (
	"math"
	"strconv"
	"strings"

	"github.com/zillusion/capsule/internal/record"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
	// MaxPage keeps the record offset of any page within int range.
	MaxPage = math.MaxInt32
)

// Item is one list row.
type Item struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Filename *string `json:"filename"`
	Duration float64 `json:"duration"`
	Demo     bool    `json:"demo,omitempty"`
}

// Pagination describes where a page sits in the list.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
}

// Page is the list response body.
type Page struct {
	Data       []Item     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ItemFrom converts a record to a list row.
func ItemFrom(r *record.Record, demo bool) Item {
	return Item{
		ID:       r.ID,
		Text:     r.Text(),
		Filename: r.Filename,
		Duration: r.Duration(),
		Demo:     demo,
	}
}

// ParseQuery reads the page and limit query values. Only the leading
// integer counts, so "2.5" is page 2. Values with no leading integer take
// their defaults; the results are normalized.
func ParseQuery(page, limit string) (int, int) {
	p, ok := leadingInt(page)
	if !ok {
		p = 1
	}
	l, ok := leadingInt(limit)
	if !ok || l == 0 {
		l = DefaultLimit
	}
	return Normalize(p, l)
}

// leadingInt parses an optional sign and the digits that follow it, after
// leading white space. Anything after the digits is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Normalize clamps page to [1, MaxPage] and limit to [1, MaxLimit].
func Normalize(page, limit int) (int, int) {
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return page, limit
}

// window is the slice of user records a page shows.
type window struct {
	offset int
	limit  int
	demo   bool
}

func plan(page, limit int) window {
	if page == 1 {
		return window{offset: 0, limit: limit - 1, demo: true}
	}
	return window{offset: (page-1)*limit - 1, limit: limit}
}

func paginate(page, limit int, userCount int64) Pagination {
	total := int(userCount) + 1
	return Pagination{
		CurrentPage:  page,
		ItemsPerPage: limit,
		TotalItems:   total,
		TotalPages:   (total + limit - 1) / limit,
	}
}
