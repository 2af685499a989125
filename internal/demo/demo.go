// Package demo resolves the shared demo record every user can see.
package demo

import (
	"context"

	apperrors "github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/internal/record"
)

// DefaultID is the demo record shipped with every deployment.
const DefaultID = "5ebfb8fa-f567-4357-bfbd-4d0691cd4770"

// Store is the subset of record.Repository the policy reads.
type Store interface {
	Get(ctx context.Context, id string) (*record.Record, error)
	GetOwned(ctx context.Context, id, userID string) (*record.Record, error)
}

// Policy decides which record a user may open. The demo record is readable
// by everyone; any other record only by its owner.
type Policy struct {
	ID string
}

// New returns a Policy for id, or DefaultID when id is empty.
func New(id string) Policy {
	if id == "" {
		id = DefaultID
	}
	return Policy{ID: id}
}

// IsDemo reports whether id is the demo record.
func (p Policy) IsDemo(id string) bool { return id == p.ID }

// Lookup loads id on behalf of userID and reports whether it is the demo.
// Missing or foreign records return the repository's not-found error.
func (p Policy) Lookup(ctx context.Context, store Store, id, userID string) (*record.Record, bool, error) {
	if p.IsDemo(id) {
		rec, err := store.Get(ctx, id)
		return rec, err == nil, err
	}
	rec, err := store.GetOwned(ctx, id, userID)
	return rec, false, err
}

// Pinned loads the demo record for the first list page. A missing demo
// record yields (nil, nil) so the list still renders.
func (p Policy) Pinned(ctx context.Context, store Store) (*record.Record, error) {
	rec, err := store.Get(ctx, p.ID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}
