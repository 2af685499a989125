package demo

import (
	"context"
	"testing"

	"github.com/zillusion/capsule/database/testutil"
	apperrors "github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/internal/record"
)

func seed(t *testing.T, recs ...*record.Record) *record.Repository {
	t.Helper()
	repo := record.NewRepository(testutil.Open(t, &record.Record{}))
	for _, r := range recs {
		if err := repo.Insert(context.Background(), r); err != nil {
			t.Fatalf("seed %s: %v", r.ID, err)
		}
	}
	return repo
}

func TestLookup(t *testing.T) {
	repo := seed(t,
		&record.Record{ID: DefaultID, UserID: "owner-of-demo"},
		&record.Record{ID: "mine", UserID: "u1"},
		&record.Record{ID: "theirs", UserID: "u2"},
	)
	p := New("")
	ctx := context.Background()

	tests := []struct {
		name     string
		id       string
		wantDemo bool
		wantErr  bool
	}{
		{"demo readable by anyone", DefaultID, true, false},
		{"own record", "mine", false, false},
		{"foreign record hidden", "theirs", false, true},
		{"unknown", "nope", false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, isDemo, err := p.Lookup(ctx, repo, tc.id, "u1")
			if tc.wantErr {
				if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
					t.Fatalf("expected not found, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if rec.ID != tc.id || isDemo != tc.wantDemo {
				t.Errorf("got %s demo=%v", rec.ID, isDemo)
			}
		})
	}
}

func TestLookupMissingDemo(t *testing.T) {
	repo := seed(t)
	_, isDemo, err := New("").Lookup(context.Background(), repo, DefaultID, "u1")
	if isDemo || !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected not found without demo flag, got demo=%v err=%v", isDemo, err)
	}
}

func TestPinned(t *testing.T) {
	ctx := context.Background()
	if rec, err := New("").Pinned(ctx, seed(t)); rec != nil || err != nil {
		t.Errorf("expected nil, nil for missing demo, got %v, %v", rec, err)
	}
	repo := seed(t, &record.Record{ID: "custom-demo", UserID: "x"})
	rec, err := New("custom-demo").Pinned(ctx, repo)
	if err != nil || rec == nil || rec.ID != "custom-demo" {
		t.Errorf("expected custom demo, got %v, %v", rec, err)
	}
}
