package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync/atomic"
)

// ErrConsumed is yielded when a record sequence is ranged over a second
// time. Query again to re-read the current state.
var ErrConsumed = errors.New("store: record sequence already consumed")

// Seq is a lazily evaluated, single-use sequence of records. Nothing is read
// until iteration starts; the query result is then a snapshot.
type Seq[T any] = iter.Seq2[*T, error]

// All returns every record of table in insertion order.
func All[T any](ctx context.Context, s *Store, table string) Seq[T] {
	return once(func() ([]*T, error) {
		t, err := s.table(table)
		if err != nil {
			return nil, err
		}
		return query[T](ctx, s, t.Name,
			fmt.Sprintf(`SELECT doc FROM %s ORDER BY seq`, t.Name))
	})
}

// ByIndex returns the records of table whose indexed field equals value, in
// insertion order.
func ByIndex[T any](ctx context.Context, s *Store, table, index, value string) Seq[T] {
	return once(func() ([]*T, error) {
		t, err := s.table(table)
		if err != nil {
			return nil, err
		}
		idx, ok := t.index(index)
		if !ok {
			return nil, fmt.Errorf("store: table %s has no index %q", table, index)
		}
		return query[T](ctx, s, t.Name,
			fmt.Sprintf(`SELECT doc FROM %s WHERE json_extract(doc, '$.%s') = ? ORDER BY seq`,
				t.Name, idx.Field),
			value)
	})
}

// query reads every matching row before returning. Rows are closed before
// the caller starts yielding, so a consumer may issue other store calls from
// inside its range loop on our single connection.
func query[T any](ctx context.Context, s *Store, table, q string, args ...any) ([]*T, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: querying %s: %w", table, err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("store: scanning %s row: %w", table, err)
		}
		rec := new(T)
		if err := json.Unmarshal([]byte(doc), rec); err != nil {
			return nil, fmt.Errorf("store: decoding %s row: %w", table, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating %s: %w", table, err)
	}
	return out, nil
}

func once[T any](load func() ([]*T, error)) Seq[T] {
	var used atomic.Bool
	return func(yield func(*T, error) bool) {
		if used.Swap(true) {
			yield(nil, ErrConsumed)
			return
		}
		recs, err := load()
		if err != nil {
			yield(nil, err)
			return
		}
		for _, rec := range recs {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Sorted returns a sequence yielding the records of seq ordered by cmp.
// Equal records keep their relative order. Like seq, it is single-use.
func Sorted[T any](seq Seq[T], cmp func(a, b *T) int) Seq[T] {
	return once(func() ([]*T, error) {
		recs, err := Collect(seq)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(recs, cmp)
		return recs, nil
	})
}

// Filter returns a sequence yielding only the records of seq for which keep
// returns true.
func Filter[T any](seq Seq[T], keep func(*T) bool) Seq[T] {
	return func(yield func(*T, error) bool) {
		for rec, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			if keep(rec) && !yield(rec, nil) {
				return
			}
		}
	}
}

// Collect drains seq into a slice. It stops at the first error.
func Collect[T any](seq Seq[T]) ([]*T, error) {
	var out []*T
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
