package repository

import (
	"context"
	"time"

	"github.com/sakif/modelshare/internal/apperror"
	"github.com/sakif/modelshare/internal/store"
	"github.com/sakif/modelshare/internal/validation"
)

// utcNow is the default repository clock. Timestamps are UTC with the
// monotonic reading stripped, so a record compares equal to its stored copy.
func utcNow() time.Time {
	return time.Now().UTC().Round(0)
}

// insert validates rec (applying its defaults) and writes it under id.
func insert[T any](ctx context.Context, s *store.Store, v *validation.Validator, table, id string, rec T) (*T, error) {
	parsed, err := validation.Parse(v, rec)
	if err != nil {
		return nil, err
	}
	if err := s.Put(ctx, table, id, parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// update loads the record under id, lets merge apply a patch to it, then
// re-validates and writes the result. The stored record is untouched when
// any step fails.
func update[T any](
	ctx context.Context,
	s *store.Store,
	v *validation.Validator,
	table, resource, id string,
	merge func(*T) error,
) (*T, error) {
	cur, err := store.Get[T](ctx, s, table, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, apperror.NotFound(resource, id)
	}

	if err := merge(cur); err != nil {
		return nil, err
	}

	return insert(ctx, s, v, table, id, *cur)
}

// first returns the first record of seq, or nil if it is empty.
func first[T any](seq store.Seq[T]) (*T, error) {
	for rec, err := range seq {
		return rec, err
	}
	return nil, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
