package repository

import (
	"context"
	"time"

	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/store"
	"github.com/sakif/modelshare/internal/validation"
)

// compile-time check that *Models implements ModelRepository
var _ ModelRepository = (*Models)(nil)

// NewModel is the input to Models.Create. Counters are not part of it: a new
// model always starts at zero downloads and zero likes.
type NewModel struct {
	Name         string
	Description  string
	ImageURL     string
	DownloadURL  string
	Creator      string
	Tags         []string
	Version      string
	BaseModel    string
	Images       []string
	TriggerWords []string
}

// ModelPatch lists the fields Models.Update may change. Nil means "keep".
type ModelPatch struct {
	Name         *string
	Description  *string
	ImageURL     *string
	DownloadURL  *string
	Creator      *string
	Downloads    *int
	Likes        *int
	Tags         *[]string
	Version      *string
	BaseModel    *string
	Images       *[]string
	TriggerWords *[]string
}

type Models struct {
	store  *store.Store
	schema *validation.Validator
	now    func() time.Time
}

func NewModels(s *store.Store, v *validation.Validator) *Models {
	return &Models{store: s, schema: v, now: utcNow}
}

func (r *Models) Create(ctx context.Context, in NewModel) (*model.Model, error) {
	ts := r.now()
	m := model.Model{
		ID:           r.store.NewID(),
		Name:         in.Name,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		DownloadURL:  in.DownloadURL,
		Creator:      in.Creator,
		Tags:         in.Tags,
		Version:      in.Version,
		BaseModel:    in.BaseModel,
		Images:       in.Images,
		TriggerWords: in.TriggerWords,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	return insert(ctx, r.store, r.schema, store.Models, m.ID, m)
}

func (r *Models) FindByID(ctx context.Context, id string) (*model.Model, error) {
	return store.Get[model.Model](ctx, r.store, store.Models, id)
}

func (r *Models) FindAll(ctx context.Context) store.Seq[model.Model] {
	return store.All[model.Model](ctx, r.store, store.Models)
}

func (r *Models) FindByCreator(ctx context.Context, creator string) store.Seq[model.Model] {
	return store.ByIndex[model.Model](ctx, r.store, store.Models, store.ByCreator, creator)
}

// Update applies patch as given. Counters may be set to any non-negative
// value here; service.ModelService is what keeps them increment-only.
func (r *Models) Update(ctx context.Context, id string, patch ModelPatch) (*model.Model, error) {
	return update(ctx, r.store, r.schema, store.Models, "model", id, func(m *model.Model) error {
		set(&m.Name, patch.Name)
		set(&m.Description, patch.Description)
		set(&m.ImageURL, patch.ImageURL)
		set(&m.DownloadURL, patch.DownloadURL)
		set(&m.Creator, patch.Creator)
		set(&m.Downloads, patch.Downloads)
		set(&m.Likes, patch.Likes)
		set(&m.Tags, patch.Tags)
		set(&m.Version, patch.Version)
		set(&m.BaseModel, patch.BaseModel)
		set(&m.Images, patch.Images)
		set(&m.TriggerWords, patch.TriggerWords)
		m.UpdatedAt = r.now()
		return nil
	})
}

func (r *Models) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Models, id)
}
