package repository

import (
	"context"
	"time"

	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/store"
	"github.com/sakif/modelshare/internal/validation"
)

// compile-time check that *Comments implements CommentRepository
var _ CommentRepository = (*Comments)(nil)

type NewComment struct {
	Text    string
	UserID  string
	ModelID string
}

type CommentPatch struct {
	Text *string
}

// Comments stores comments, indexed by model and by author.
type Comments struct {
	store  *store.Store
	schema *validation.Validator
	now    func() time.Time
}

func NewComments(s *store.Store, v *validation.Validator) *Comments {
	return &Comments{store: s, schema: v, now: utcNow}
}

func (r *Comments) Create(ctx context.Context, in NewComment) (*model.Comment, error) {
	ts := r.now()
	c := model.Comment{
		ID:        r.store.NewID(),
		Text:      in.Text,
		UserID:    in.UserID,
		ModelID:   in.ModelID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	return insert(ctx, r.store, r.schema, store.Comments, c.ID, c)
}

func (r *Comments) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	return store.Get[model.Comment](ctx, r.store, store.Comments, id)
}

func (r *Comments) FindAll(ctx context.Context) store.Seq[model.Comment] {
	return store.All[model.Comment](ctx, r.store, store.Comments)
}

// FindByModelID returns a model's comments, newest first.
func (r *Comments) FindByModelID(ctx context.Context, modelID string) store.Seq[model.Comment] {
	return store.Sorted(
		store.ByIndex[model.Comment](ctx, r.store, store.Comments, store.ByModel, modelID),
		newestFirst,
	)
}

// FindByUserID returns a user's comments in the order they were written.
func (r *Comments) FindByUserID(ctx context.Context, userID string) store.Seq[model.Comment] {
	return store.ByIndex[model.Comment](ctx, r.store, store.Comments, store.ByUser, userID)
}

func (r *Comments) Update(ctx context.Context, id string, patch CommentPatch) (*model.Comment, error) {
	return update(ctx, r.store, r.schema, store.Comments, "comment", id, func(c *model.Comment) error {
		set(&c.Text, patch.Text)
		c.UpdatedAt = r.now()
		return nil
	})
}

func (r *Comments) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Comments, id)
}

func newestFirst(a, b *model.Comment) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}
