package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/repository"
	"github.com/sakif/modelshare/internal/validation"
)

// RegisterForm is the sign-up form. ConfirmPassword must repeat Password.
type RegisterForm struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	AvatarURL       string `json:"avatarUrl"`
}

// ProfilePatch lists what a user may change about their own account. Nil
// means "keep". There is no admin flag here.
type ProfilePatch struct {
	Username  *string
	Email     *string
	Password  *string
	AvatarURL *string
}

// UserService handles sign-up and profile changes.
type UserService struct {
	users  repository.UserRepository
	schema *validation.Validator
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, v *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{users: users, schema: v, logger: logger}
}

// Register creates a regular (non-admin) account.
func (s *UserService) Register(ctx context.Context, form RegisterForm) (*model.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)

	// Field rules are checked by Users.Create; the form only adds the
	// confirmation.
	if err := s.schema.Check(form); err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, repository.NewUser{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		AvatarURL: form.AvatarURL,
	})
	if err != nil {
		logFailure(s.logger, "failed to register user", err, slog.String("username", form.Username))
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// UpdateProfile applies a user's own profile changes.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*model.User, error) {
	user, err := s.users.Update(ctx, id, repository.UserPatch{
		Username:  patch.Username,
		Email:     patch.Email,
		Password:  patch.Password,
		AvatarURL: patch.AvatarURL,
	})
	if err != nil {
		logFailure(s.logger, "failed to update profile", err, slog.String("id", id))
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("id", id))
	return user, nil
}
