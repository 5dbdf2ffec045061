// Package repository holds the entity repositories: per-entity CRUD over the
// record store, each enforcing its own defaulting, timestamping and
// validation rules.
//
// Callers outside the data layer depend on the interfaces declared here, not
// on the concrete types, so services and the auth package can be tested with
// in-memory fakes.
//
// CONVENTIONS:
//   - Create generates the id and timestamps; callers never supply them.
//   - FindByID and the unique finders return (nil, nil) when nothing matches.
//   - FindAll and the other index finders return a lazy, single-use
//     store.Seq; range over it once, or query again for fresh state.
//   - Update returns apperror.ErrNotFound for an unknown id.
//   - Delete is idempotent and never cascades. Dependent records are the
//     service layer's business.
package repository

import (
	"context"

	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/store"
)

type UserRepository interface {
	Create(ctx context.Context, in NewUser) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) store.Seq[model.User]
	Update(ctx context.Context, id string, patch UserPatch) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type ModelRepository interface {
	Create(ctx context.Context, in NewModel) (*model.Model, error)
	FindByID(ctx context.Context, id string) (*model.Model, error)
	FindAll(ctx context.Context) store.Seq[model.Model]
	FindByCreator(ctx context.Context, creator string) store.Seq[model.Model]
	Update(ctx context.Context, id string, patch ModelPatch) (*model.Model, error)
	Delete(ctx context.Context, id string) error
}

type ImageRepository interface {
	Create(ctx context.Context, in NewImage) (*model.Image, error)
	FindByID(ctx context.Context, id string) (*model.Image, error)
	FindAll(ctx context.Context) store.Seq[model.Image]
	FindByModelID(ctx context.Context, modelID string) store.Seq[model.Image]
	Update(ctx context.Context, id string, patch ImagePatch) (*model.Image, error)
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Create(ctx context.Context, in NewComment) (*model.Comment, error)
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	FindAll(ctx context.Context) store.Seq[model.Comment]
	FindByModelID(ctx context.Context, modelID string) store.Seq[model.Comment]
	FindByUserID(ctx context.Context, userID string) store.Seq[model.Comment]
	Update(ctx context.Context, id string, patch CommentPatch) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
}

// PasswordHasher turns a plaintext password into the stored hash.
// auth.PasswordService implements it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}
