package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/modelshare/internal/apperror"
	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/repository"
)

// CommentView is a comment joined with the author fields a thread displays.
type CommentView struct {
	model.Comment
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// CommentService posts and lists comments on models.
type CommentService struct {
	comments repository.CommentRepository
	users    repository.UserRepository
	models   repository.ModelRepository
	logger   *slog.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	users repository.UserRepository,
	models repository.ModelRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		users:    users,
		models:   models,
		logger:   logger,
	}
}

// Post adds a comment by userID on modelID. Both must exist.
func (s *CommentService) Post(ctx context.Context, userID, modelID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user", userID)
	}

	m, err := s.models.FindByID(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("model", modelID)
	}

	c, err := s.comments.Create(ctx, repository.NewComment{Text: text, UserID: userID, ModelID: modelID})
	if err != nil {
		logFailure(s.logger, "failed to post comment", err,
			slog.String("userID", userID), slog.String("modelID", modelID))
		return nil, err
	}

	s.logger.Info("comment posted",
		slog.String("id", c.ID),
		slog.String("userID", userID),
		slog.String("modelID", modelID),
	)
	return c, nil
}

// Thread returns the comments on a model, newest first, with their authors.
// Comments whose author no longer exists are left out.
func (s *CommentService) Thread(ctx context.Context, modelID string) ([]CommentView, error) {
	authors := make(map[string]*model.User)
	views := []CommentView{}

	for c, err := range s.comments.FindByModelID(ctx, modelID) {
		if err != nil {
			return nil, err
		}

		author, seen := authors[c.UserID]
		if !seen {
			author, err = s.users.FindByID(ctx, c.UserID)
			if err != nil {
				return nil, err
			}
			authors[c.UserID] = author
		}
		if author == nil {
			continue
		}

		views = append(views, CommentView{
			Comment:   *c,
			Username:  author.Username,
			AvatarURL: author.AvatarURL,
		})
	}
	return views, nil
}

// Delete removes a comment. Deleting an absent comment is not an error.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		logFailure(s.logger, "failed to delete comment", err, slog.String("id", id))
		return err
	}
	s.logger.Info("comment deleted", slog.String("id", id))
	return nil
}
