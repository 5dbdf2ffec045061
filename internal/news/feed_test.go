package news

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/modelshare/internal/apperror"
	"github.com/sakif/modelshare/internal/validation"
)

func newTestFeed(t *testing.T) *Feed {
	t.Helper()
	return NewFeed(validation.New(), slog.New(slog.DiscardHandler))
}

func TestPublish(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()

	a, err := f.Publish(ctx, Draft{Title: "Hello", Content: "<p>hi</p>", Author: "ModelShare Team"})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, []string{}, a.Images)
	assert.Equal(t, a, f.Get(ctx, a.ID))
	assert.Equal(t, 1, f.Len())
}

func TestPublish_ShortTitle(t *testing.T) {
	f := newTestFeed(t)

	_, err := f.Publish(context.Background(), Draft{Title: "Hi"})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "title", apperror.FieldOf(err))
	assert.Zero(t, f.Len())
}

func TestList_NewestFirst(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)

	for _, d := range []Draft{
		{Title: "Middle", PublishedAt: day.AddDate(0, 0, 1)},
		{Title: "Oldest", PublishedAt: day},
		{Title: "Newest", PublishedAt: day.AddDate(0, 0, 2)},
		{Title: "Also newest", PublishedAt: day.AddDate(0, 0, 2)},
	} {
		_, err := f.Publish(ctx, d)
		require.NoError(t, err)
	}

	var titles []string
	for _, a := range f.List(ctx) {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"Also newest", "Newest", "Middle", "Oldest"}, titles)
}

func TestUpdate(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()
	a, err := f.Publish(ctx, Draft{Title: "Draft title", Summary: "old"})
	require.NoError(t, err)

	title := "Final title"
	images := []string{"https://example.com/a.png"}
	got, err := f.Update(ctx, a.ID, Patch{Title: &title, Images: &images})
	require.NoError(t, err)
	assert.Equal(t, "Final title", got.Title)
	assert.Equal(t, "old", got.Summary)
	assert.Equal(t, images, got.Images)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)

	short := "no"
	_, err = f.Update(ctx, a.ID, Patch{Title: &short})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Final title", f.Get(ctx, a.ID).Title)

	_, err = f.Update(ctx, "missing", Patch{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()
	a, err := f.Publish(ctx, Draft{Title: "Short-lived"})
	require.NoError(t, err)

	f.Delete(ctx, a.ID)
	f.Delete(ctx, a.ID)

	assert.Nil(t, f.Get(ctx, a.ID))
	assert.Empty(t, f.List(ctx))
}

func TestReturnedArticlesAreCopies(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()
	a, err := f.Publish(ctx, Draft{Title: "Original", Images: []string{"https://example.com/a.png"}})
	require.NoError(t, err)

	a.Title = "changed"
	a.Images[0] = "changed"

	got := f.Get(ctx, a.ID)
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, "https://example.com/a.png", got.Images[0])
}

func TestConcurrentPublish(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.Publish(ctx, Draft{Title: "Concurrent"})
			assert.NoError(t, err)
			f.List(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, f.Len())
}
