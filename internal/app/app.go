// Package app is the composition root: it opens the store and wires the
// repositories, services, auth session and news feed together, so every
// entry point builds the same graph.
//
//	config → store.Open → repositories → services
//	                    ↘ auth.Session (static admin, then stored users)
//	news.Feed (memory only)
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/modelshare/internal/auth"
	"github.com/sakif/modelshare/internal/config"
	"github.com/sakif/modelshare/internal/news"
	"github.com/sakif/modelshare/internal/repository"
	"github.com/sakif/modelshare/internal/service"
	"github.com/sakif/modelshare/internal/store"
	"github.com/sakif/modelshare/internal/validation"
)

// App owns the store. Call Close when done.
type App struct {
	Store *store.Store

	Users    *repository.Users
	Models   *repository.Models
	Images   *repository.Images
	Comments *repository.Comments

	ModelService   *service.ModelService
	CommentService *service.CommentService
	UserService    *service.UserService

	Passwords *auth.PasswordService
	Session   *auth.Session
	Feed      *news.Feed

	logger *slog.Logger
}

// New opens the store at cfg.DBPath, creating its directory if needed, and
// builds everything on top of it.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("app: creating database directory %s: %w", dir, err)
		}
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	v := validation.New()
	passwords := auth.NewPasswordService(cfg.BcryptCost)

	a := &App{
		Store:     s,
		Users:     repository.NewUsers(s, v, passwords),
		Models:    repository.NewModels(s, v),
		Images:    repository.NewImages(s, v),
		Comments:  repository.NewComments(s, v),
		Passwords: passwords,
		Feed:      news.NewFeed(v, logger),
		logger:    logger,
	}

	a.ModelService = service.NewModelService(a.Models, a.Images, a.Comments, logger)
	a.CommentService = service.NewCommentService(a.Comments, a.Users, a.Models, logger)
	a.UserService = service.NewUserService(a.Users, v, logger)

	a.Session = auth.NewSession(auth.Chain{
		auth.NewStaticCredentials(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail),
		auth.NewRepositoryCredentials(a.Users, passwords),
	}, logger)

	logger.Info("store opened", slog.String("path", cfg.DBPath))
	return a, nil
}

// Close ends the session and closes the store.
func (a *App) Close() error {
	a.Session.Logout()
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("app: closing store: %w", err)
	}
	a.logger.Info("store closed")
	return nil
}
