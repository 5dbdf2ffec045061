package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sakif/modelshare/internal/apperror"
	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/repository"
	"github.com/sakif/modelshare/internal/store"
	"github.com/sakif/modelshare/internal/validation"
)

// SortOrder selects how List orders the catalog.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"    // createdAt, newest first
	SortPopular   SortOrder = "popular"   // likes, most first
	SortDownloads SortOrder = "downloads" // downloads, most first
)

// ParseSortOrder maps a user-supplied value to a SortOrder. The empty string
// means SortNewest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortNewest, nil
	case SortNewest, SortPopular, SortDownloads:
		return o, nil
	default:
		return "", apperror.ValidationFailed("sort",
			fmt.Sprintf("sort must be one of %s, %s, %s", SortNewest, SortPopular, SortDownloads))
	}
}

func (o SortOrder) compare() (func(a, b *model.Model) int, error) {
	switch o {
	case SortNewest, "":
		return func(a, b *model.Model) int { return b.CreatedAt.Compare(a.CreatedAt) }, nil
	case SortPopular:
		return func(a, b *model.Model) int { return cmp.Compare(b.Likes, a.Likes) }, nil
	case SortDownloads:
		return func(a, b *model.Model) int { return cmp.Compare(b.Downloads, a.Downloads) }, nil
	default:
		_, err := ParseSortOrder(string(o))
		return nil, err
	}
}

// ModelService runs the catalog: publishing, browsing, counters, editing and
// the images attached to a model.
type ModelService struct {
	models   repository.ModelRepository
	images   repository.ImageRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewModelService(
	models repository.ModelRepository,
	images repository.ImageRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *ModelService {
	return &ModelService{
		models:   models,
		images:   images,
		comments: comments,
		logger:   logger,
	}
}

// Publish adds a model to the catalog.
func (s *ModelService) Publish(ctx context.Context, in repository.NewModel) (*model.Model, error) {
	m, err := s.models.Create(ctx, in)
	if err != nil {
		logFailure(s.logger, "failed to publish model", err, slog.String("name", in.Name))
		return nil, err
	}

	s.logger.Info("model published",
		slog.String("id", m.ID),
		slog.String("name", m.Name),
		slog.String("creator", m.Creator),
	)
	return m, nil
}

// Get returns the model with the given id, or apperror.ErrNotFound.
func (s *ModelService) Get(ctx context.Context, id string) (*model.Model, error) {
	m, err := s.models.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("model", id)
	}
	return m, nil
}

// List returns the whole catalog in the given order. Ties keep publication
// order.
func (s *ModelService) List(ctx context.Context, order SortOrder) ([]*model.Model, error) {
	compare, err := order.compare()
	if err != nil {
		return nil, err
	}
	return store.Collect(store.Sorted(s.models.FindAll(ctx), compare))
}

// ListByCreator returns the models published by creator, newest first.
func (s *ModelService) ListByCreator(ctx context.Context, creator string) ([]*model.Model, error) {
	compare, _ := SortNewest.compare()
	return store.Collect(store.Sorted(s.models.FindByCreator(ctx, creator), compare))
}

// Like adds one like to the model.
func (s *ModelService) Like(ctx context.Context, id string) (*model.Model, error) {
	return s.bump(ctx, id, "like", func(m *model.Model, p *repository.ModelPatch) {
		likes := m.Likes + 1
		p.Likes = &likes
	})
}

// RecordDownload adds one download to the model.
func (s *ModelService) RecordDownload(ctx context.Context, id string) (*model.Model, error) {
	return s.bump(ctx, id, "download", func(m *model.Model, p *repository.ModelPatch) {
		downloads := m.Downloads + 1
		p.Downloads = &downloads
	})
}

func (s *ModelService) bump(ctx context.Context, id, what string, inc func(*model.Model, *repository.ModelPatch)) (*model.Model, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var patch repository.ModelPatch
	inc(m, &patch)

	updated, err := s.models.Update(ctx, id, patch)
	if err != nil {
		logFailure(s.logger, "failed to record "+what, err, slog.String("id", id))
		return nil, err
	}
	return updated, nil
}

// Edit applies an administrator's changes to a model. Counters only move
// forward: a patch that lowers likes or downloads fails validation.
func (s *ModelService) Edit(ctx context.Context, id string, patch repository.ModelPatch) (*model.Model, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Likes != nil && *patch.Likes < cur.Likes {
		return nil, apperror.ValidationFailed("likes",
			fmt.Sprintf("likes cannot decrease below %d", cur.Likes))
	}
	if patch.Downloads != nil && *patch.Downloads < cur.Downloads {
		return nil, apperror.ValidationFailed("downloads",
			fmt.Sprintf("downloads cannot decrease below %d", cur.Downloads))
	}

	m, err := s.models.Update(ctx, id, patch)
	if err != nil {
		logFailure(s.logger, "failed to edit model", err, slog.String("id", id))
		return nil, err
	}

	s.logger.Info("model edited", slog.String("id", id))
	return m, nil
}

// Delete removes a model together with its images and comments. Dependents go
// first, so a failure part way leaves the model in place and Delete can be
// retried. Deleting an absent model is not an error.
func (s *ModelService) Delete(ctx context.Context, id string) error {
	images, err := store.Collect(s.images.FindByModelID(ctx, id))
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.images.Delete(ctx, img.ID); err != nil {
			logFailure(s.logger, "failed to delete model image", err,
				slog.String("modelID", id), slog.String("imageID", img.ID))
			return err
		}
	}

	comments, err := store.Collect(s.comments.FindByModelID(ctx, id))
	if err != nil {
		return err
	}
	for _, c := range comments {
		if err := s.comments.Delete(ctx, c.ID); err != nil {
			logFailure(s.logger, "failed to delete model comment", err,
				slog.String("modelID", id), slog.String("commentID", c.ID))
			return err
		}
	}

	if err := s.models.Delete(ctx, id); err != nil {
		logFailure(s.logger, "failed to delete model", err, slog.String("id", id))
		return err
	}

	s.logger.Info("model deleted",
		slog.String("id", id),
		slog.Int("images", len(images)),
		slog.Int("comments", len(comments)),
	)
	return nil
}

// AttachImage stores an uploaded picture (a data URL) for an existing model.
func (s *ModelService) AttachImage(ctx context.Context, modelID, dataURL string) (*model.Image, error) {
	if _, err := s.Get(ctx, modelID); err != nil {
		return nil, err
	}

	img, err := s.images.Create(ctx, repository.NewImage{ModelID: modelID, Data: dataURL})
	if err != nil {
		logFailure(s.logger, "failed to attach image", err, slog.String("modelID", modelID))
		return nil, err
	}

	s.logger.Info("image attached",
		slog.String("modelID", modelID),
		slog.String("imageID", img.ID),
	)
	return img, nil
}

// Gallery returns every picture to show for a model: its external image URLs
// first, then the uploaded images in upload order.
func (s *ModelService) Gallery(ctx context.Context, modelID string) ([]string, error) {
	m, err := s.Get(ctx, modelID)
	if err != nil {
		return nil, err
	}

	urls := append([]string{}, m.Images...)
	for img, err := range s.images.FindByModelID(ctx, modelID) {
		if err != nil {
			return nil, err
		}
		urls = append(urls, img.Data)
	}
	return urls, nil
}

// MigrateInlineImages moves data URLs found in Model.Images into the images
// table, leaving only external URLs on the model. Entries that start with
// "data:" but are not well-formed data URLs are dropped with a warning. Every
// entry of a model is checked before any image is created for it. It returns
// the number of images moved and is safe to run repeatedly.
func (s *ModelService) MigrateInlineImages(ctx context.Context) (int, error) {
	models, err := store.Collect(store.Filter(s.models.FindAll(ctx), hasInlineImages))
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, m := range models {
		keep := []string{}
		var inline []string
		dropped := 0
		for _, u := range m.Images {
			switch {
			case !isInline(u):
				keep = append(keep, u)
			case validation.IsDataURL(u):
				inline = append(inline, u)
			default:
				dropped++
			}
		}
		if dropped > 0 {
			s.logger.Warn("dropping malformed inline images",
				slog.String("modelID", m.ID),
				slog.Int("count", dropped),
			)
		}

		for _, data := range inline {
			if _, err := s.images.Create(ctx, repository.NewImage{ModelID: m.ID, Data: data}); err != nil {
				logFailure(s.logger, "failed to migrate inline image", err, slog.String("modelID", m.ID))
				return moved, err
			}
		}

		if _, err := s.models.Update(ctx, m.ID, repository.ModelPatch{Images: &keep}); err != nil {
			logFailure(s.logger, "failed to strip inline images", err, slog.String("modelID", m.ID))
			return moved, err
		}
		moved += len(inline)
	}

	if moved > 0 {
		s.logger.Info("inline images migrated", slog.Int("count", moved))
	}
	return moved, nil
}

func isInline(u string) bool {
	return strings.HasPrefix(u, "data:")
}

func hasInlineImages(m *model.Model) bool {
	return slices.ContainsFunc(m.Images, isInline)
}
