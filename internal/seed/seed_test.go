package seed

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/modelshare/internal/auth"
	"github.com/sakif/modelshare/internal/news"
	"github.com/sakif/modelshare/internal/repository"
	"github.com/sakif/modelshare/internal/service"
	"github.com/sakif/modelshare/internal/store"
	"github.com/sakif/modelshare/internal/validation"
)

func newTestDeps(t *testing.T) (Deps, *store.Store) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.DiscardHandler)
	v := validation.New()
	users := repository.NewUsers(s, v, auth.NewPasswordService(4))
	models := repository.NewModels(s, v)
	images := repository.NewImages(s, v)
	comments := repository.NewComments(s, v)

	return Deps{
		Models:   service.NewModelService(models, images, comments, logger),
		Comments: service.NewCommentService(comments, users, models, logger),
		Users:    service.NewUserService(users, v, logger),
		Catalog:  models,
		Logger:   logger,
	}, s
}

func TestCatalog(t *testing.T) {
	d, s := newTestDeps(t)
	ctx := context.Background()

	n, err := Catalog(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	popular, err := d.Models.List(ctx, service.SortPopular)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, "Realistic Portrait v2.0", popular[0].Name)
	assert.Equal(t, 3242, popular[0].Likes)
	assert.Equal(t, 12453, popular[0].Downloads)
	assert.Len(t, popular[0].Images, 3)

	// A second run leaves a populated catalog alone.
	n, err = Catalog(ctx, d)
	require.NoError(t, err)
	assert.Zero(t, n)
	count, err := s.Count(ctx, store.Models)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestArticles(t *testing.T) {
	feed := news.NewFeed(validation.New(), slog.New(slog.DiscardHandler))
	ctx := context.Background()

	n, err := Articles(ctx, feed)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list := feed.List(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, "New Stable Diffusion XL Model Released", list[0].Title)
	assert.Equal(t, "Tutorial: Optimizing Your Model Training", list[2].Title)

	n, err = Articles(ctx, feed)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommunity(t *testing.T) {
	d, s := newTestDeps(t)
	ctx := context.Background()
	_, err := Catalog(ctx, d)
	require.NoError(t, err)

	users, err := Community(ctx, d, 4)
	require.NoError(t, err)
	assert.Len(t, users, 4)

	n, err := s.Count(ctx, store.Comments)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, u := range users {
		assert.False(t, u.IsAdmin)
		assert.NotEmpty(t, u.PasswordHash)
	}
}

func TestCommunity_NeedsCatalog(t *testing.T) {
	d, _ := newTestDeps(t)

	_, err := Community(context.Background(), d, 1)
	assert.Error(t, err)

	users, err := Community(context.Background(), d, 0)
	assert.NoError(t, err)
	assert.Empty(t, users)
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short ascii", "alice", 40, "alice"},
		{"long ascii", strings.Repeat("a", 45), 40, strings.Repeat("a", 40)},
		{"multibyte kept whole", strings.Repeat("é", 39) + "日本", 40, strings.Repeat("é", 39) + "日"},
		{"exact length", strings.Repeat("ß", 40), 40, strings.Repeat("ß", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateRunes(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestFakeUsername_Fits(t *testing.T) {
	for range 50 {
		name := fakeUsername()
		assert.True(t, utf8.ValidString(name))
		assert.LessOrEqual(t, utf8.RuneCountInString(name), 44)
	}
}
