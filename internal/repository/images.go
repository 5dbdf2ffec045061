package repository

import (
	"context"
	"time"

	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/store"
	"github.com/sakif/modelshare/internal/validation"
)

// compile-time check that *Images implements ImageRepository
var _ ImageRepository = (*Images)(nil)

type NewImage struct {
	ModelID string
	Data    string // data URL
}

type ImagePatch struct {
	ModelID *string
	Data    *string
}

// Images stores uploaded picture content, indexed by model.
type Images struct {
	store  *store.Store
	schema *validation.Validator
	now    func() time.Time
}

func NewImages(s *store.Store, v *validation.Validator) *Images {
	return &Images{store: s, schema: v, now: utcNow}
}

func (r *Images) Create(ctx context.Context, in NewImage) (*model.Image, error) {
	ts := r.now()
	img := model.Image{
		ID:        r.store.NewID(),
		Data:      in.Data,
		ModelID:   in.ModelID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	return insert(ctx, r.store, r.schema, store.Images, img.ID, img)
}

func (r *Images) FindByID(ctx context.Context, id string) (*model.Image, error) {
	return store.Get[model.Image](ctx, r.store, store.Images, id)
}

func (r *Images) FindAll(ctx context.Context) store.Seq[model.Image] {
	return store.All[model.Image](ctx, r.store, store.Images)
}

// FindByModelID returns a model's images in upload order.
func (r *Images) FindByModelID(ctx context.Context, modelID string) store.Seq[model.Image] {
	return store.ByIndex[model.Image](ctx, r.store, store.Images, store.ByModel, modelID)
}

func (r *Images) Update(ctx context.Context, id string, patch ImagePatch) (*model.Image, error) {
	return update(ctx, r.store, r.schema, store.Images, "image", id, func(img *model.Image) error {
		set(&img.ModelID, patch.ModelID)
		set(&img.Data, patch.Data)
		img.UpdatedAt = r.now()
		return nil
	})
}

func (r *Images) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Images, id)
}
