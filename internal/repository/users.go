package repository

import (
	"context"
	"time"

	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/store"
	"github.com/sakif/modelshare/internal/validation"
)

// compile-time check that *Users implements UserRepository
var _ UserRepository = (*Users)(nil)

// NewUser is the input to Users.Create. Password is plaintext here and only
// ever leaves this package hashed.
type NewUser struct {
	Username  string `json:"username"  validate:"required,min=3,max=50"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6,max=72"`
	AvatarURL string `json:"avatarUrl"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserPatch lists the fields Users.Update may change. Nil means "keep".
type UserPatch struct {
	Username  *string
	Email     *string
	Password  *string
	AvatarURL *string
	IsAdmin   *bool
}

// passwordRule validates a plaintext password on its own, for updates.
type passwordRule struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Users stores accounts. Usernames and emails are unique; the store's
// by-username and by-email indexes enforce it.
type Users struct {
	store  *store.Store
	schema *validation.Validator
	hasher PasswordHasher
	now    func() time.Time
}

func NewUsers(s *store.Store, v *validation.Validator, hasher PasswordHasher) *Users {
	return &Users{store: s, schema: v, hasher: hasher, now: utcNow}
}

// Create registers a new user. It fails with apperror.ErrValidation for a
// bad form and apperror.ErrConflict if the username or email is taken.
func (r *Users) Create(ctx context.Context, in NewUser) (*model.User, error) {
	if err := r.schema.Check(in); err != nil {
		return nil, err
	}

	hash, err := r.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	ts := r.now()
	user := model.User{
		ID:           r.store.NewID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		AvatarURL:    in.AvatarURL,
		IsAdmin:      in.IsAdmin,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	return insert(ctx, r.store, r.schema, store.Users, user.ID, user)
}

func (r *Users) FindByID(ctx context.Context, id string) (*model.User, error) {
	return store.Get[model.User](ctx, r.store, store.Users, id)
}

func (r *Users) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return first(store.ByIndex[model.User](ctx, r.store, store.Users, store.ByUsername, username))
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return first(store.ByIndex[model.User](ctx, r.store, store.Users, store.ByEmail, email))
}

func (r *Users) FindAll(ctx context.Context) store.Seq[model.User] {
	return store.All[model.User](ctx, r.store, store.Users)
}

// Update applies patch. A new password is validated and hashed before it is
// stored.
func (r *Users) Update(ctx context.Context, id string, patch UserPatch) (*model.User, error) {
	return update(ctx, r.store, r.schema, store.Users, "user", id, func(u *model.User) error {
		set(&u.Username, patch.Username)
		set(&u.Email, patch.Email)
		set(&u.AvatarURL, patch.AvatarURL)
		set(&u.IsAdmin, patch.IsAdmin)

		if patch.Password != nil {
			if err := r.schema.Check(passwordRule{Password: *patch.Password}); err != nil {
				return err
			}
			hash, err := r.hasher.Hash(*patch.Password)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
		}

		u.UpdatedAt = r.now()
		return nil
	})
}

func (r *Users) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Users, id)
}
