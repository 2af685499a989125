package selection

import (
	"testing"

	"github.com/zillusion/capsule/internal/listing"
)

func items(ids ...string) []listing.Item {
	out := make([]listing.Item, len(ids))
	for i, id := range ids {
		out[i] = listing.Item{ID: id}
	}
	return out
}

func ptr(s string) *string { return &s }

func TestAutoSelect(t *testing.T) {
	tests := []struct {
		name  string
		prev  *string
		items []listing.Item
		want  *string
	}{
		{"unset picks first", nil, items("demo", "a"), ptr("demo")},
		{"unset with empty list", nil, nil, nil},
		{"kept when present", ptr("a"), items("demo", "a"), ptr("a")},
		{"kept when absent", ptr("gone"), items("demo", "a"), ptr("gone")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AutoSelect(tc.prev, tc.items)
			switch {
			case tc.want == nil && got != nil:
				t.Errorf("expected nil, got %q", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Errorf("expected %q, got %v", *tc.want, got)
			}
		})
	}
}

func TestModeFor(t *testing.T) {
	if ModeFor(767) != Mobile || ModeFor(768) != Desktop || ModeFor(0) != Mobile {
		t.Error("unexpected breakpoint handling")
	}
}

func TestApplyPage(t *testing.T) {
	c := NewCoordinator(1200)
	if c.ApplyPage(nil) {
		t.Error("empty page must not select")
	}
	if !c.ApplyPage(items("demo", "a")) {
		t.Fatal("expected auto-select")
	}
	if id, _ := c.Selected(); id != "demo" {
		t.Errorf("expected demo selected, got %q", id)
	}
	c.Select("a")
	if c.ApplyPage(items("b", "c")) {
		t.Error("refetch must not replace an existing selection")
	}
	if id, _ := c.Selected(); id != "a" {
		t.Errorf("expected a kept, got %q", id)
	}
}

func TestMobileSelectionScenario(t *testing.T) {
	c := NewCoordinator(400)
	c.ApplyPage(items("demo", "a", "b"))
	if !c.ListVisible() || c.DetailVisible() {
		t.Fatal("mobile starts on the list")
	}

	c.Select("b")
	if c.ListVisible() || !c.DetailVisible() {
		t.Fatal("selecting in mobile must hide the list and show detail")
	}

	c.Resize(1024)
	if c.Mode() != Desktop || !c.ListVisible() || !c.DetailVisible() {
		t.Fatal("desktop must show both panes")
	}
	if id, ok := c.Selected(); !ok || id != "b" {
		t.Errorf("selection lost on resize: %q", id)
	}

	c.Resize(500)
	if !c.ListVisible() {
		t.Error("entering mobile must not hide the list by itself")
	}
}

func TestDesktopSelectKeepsList(t *testing.T) {
	c := NewCoordinator(900)
	c.Select("a")
	if !c.ListVisible() {
		t.Error("desktop selection must keep the list")
	}
}

func TestAccept(t *testing.T) {
	c := NewCoordinator(900)
	if c.Accept("a") {
		t.Error("nothing selected yet")
	}
	c.Select("a")
	c.Select("b")
	if c.Accept("a") {
		t.Error("response for abandoned id must be discarded")
	}
	if !c.Accept("b") {
		t.Error("response for current id must apply")
	}
}
