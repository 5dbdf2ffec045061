// Package news is the sidebar news feed: administrator-written articles kept
// in memory for the life of the process. Nothing here touches the record
// store; a restart starts from whatever the seeder publishes.
package news

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/modelshare/internal/apperror"
	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/validation"
)

// Draft is a new article. A zero PublishedAt means "now".
type Draft struct {
	Title       string
	Content     string // HTML
	Author      string
	Summary     string
	Images      []string
	PublishedAt time.Time
}

// Patch lists the fields Update may change. Nil means "keep".
type Patch struct {
	Title   *string
	Content *string
	Author  *string
	Summary *string
	Images  *[]string
}

// Feed holds the articles. It is safe for concurrent use.
type Feed struct {
	schema *validation.Validator
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	articles []model.Article // publication order
}

func NewFeed(v *validation.Validator, logger *slog.Logger) *Feed {
	return &Feed{
		schema: v,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Round(0) },
	}
}

// Publish validates the draft and adds it to the feed.
func (f *Feed) Publish(_ context.Context, d Draft) (*model.Article, error) {
	created := d.PublishedAt
	if created.IsZero() {
		created = f.now()
	}

	a, err := validation.Parse(f.schema, model.Article{
		ID:        xid.New().String(),
		Title:     d.Title,
		Content:   d.Content,
		Author:    d.Author,
		Summary:   d.Summary,
		Images:    slices.Clone(d.Images),
		CreatedAt: created,
	})
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.articles = append(f.articles, a)
	f.mu.Unlock()

	f.logger.Info("article published",
		slog.String("id", a.ID),
		slog.String("title", a.Title),
	)
	return clone(a), nil
}

// Get returns the article with the given id, or nil.
func (f *Feed) Get(_ context.Context, id string) *model.Article {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i := f.index(id); i >= 0 {
		return clone(f.articles[i])
	}
	return nil
}

// List returns every article, newest first. Articles published at the same
// instant list the later publication first.
func (f *Feed) List(_ context.Context) []*model.Article {
	f.mu.RLock()
	out := make([]*model.Article, 0, len(f.articles))
	for i := len(f.articles) - 1; i >= 0; i-- {
		out = append(out, clone(f.articles[i]))
	}
	f.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b *model.Article) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Update applies patch to an article. It fails with apperror.ErrNotFound for
// an unknown id and apperror.ErrValidation if the result is invalid; the
// stored article is unchanged on failure.
func (f *Feed) Update(_ context.Context, id string, p Patch) (*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.index(id)
	if i < 0 {
		return nil, apperror.NotFound("article", id)
	}

	a := f.articles[i]
	set(&a.Title, p.Title)
	set(&a.Content, p.Content)
	set(&a.Author, p.Author)
	set(&a.Summary, p.Summary)
	if p.Images != nil {
		a.Images = slices.Clone(*p.Images)
	}

	a, err := validation.Parse(f.schema, a)
	if err != nil {
		return nil, err
	}
	f.articles[i] = a

	f.logger.Info("article updated", slog.String("id", id))
	return clone(a), nil
}

// Delete removes an article. Unknown ids are ignored.
func (f *Feed) Delete(_ context.Context, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i := f.index(id); i >= 0 {
		f.articles = slices.Delete(f.articles, i, i+1)
		f.logger.Info("article deleted", slog.String("id", id))
	}
}

// Len reports how many articles the feed holds.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.articles)
}

// index must be called with mu held.
func (f *Feed) index(id string) int {
	return slices.IndexFunc(f.articles, func(a model.Article) bool { return a.ID == id })
}

func clone(a model.Article) *model.Article {
	a.Images = slices.Clone(a.Images)
	return &a
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
