// Command seed opens (or creates) a modelshare store and fills it with demo
// content: the sample catalog, the default news articles and, with
// --fake-users N, a fake community of users and comments. Inline data-URL
// images left on models by older versions are moved into the images table
// on the way.
//
// Settings come from flags, MODELSHARE_* environment variables and ./.env;
// see internal/config.
//
//	go run ./cmd/seed --db data/modelshare.db --fake-users 10
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sakif/modelshare/internal/app"
	"github.com/sakif/modelshare/internal/config"
	"github.com/sakif/modelshare/internal/seed"
	"github.com/sakif/modelshare/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:], ".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Validate has already checked the level.
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Session.Login(ctx, cfg.AdminUsername, cfg.AdminPassword) || !a.Session.IsAdmin() {
		return fmt.Errorf("administrator login as %q failed", cfg.AdminUsername)
	}

	deps := seed.Deps{
		Models:   a.ModelService,
		Comments: a.CommentService,
		Users:    a.UserService,
		Catalog:  a.Models,
		Logger:   logger,
	}

	moved, err := a.ModelService.MigrateInlineImages(ctx)
	if err != nil {
		return err
	}

	models, err := seed.Catalog(ctx, deps)
	if err != nil {
		return err
	}

	articles, err := seed.Articles(ctx, a.Feed)
	if err != nil {
		return err
	}

	users, err := seed.Community(ctx, deps, cfg.FakeUsers)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, table := range []string{store.Users, store.Models, store.Images, store.Comments} {
		n, err := a.Store.Count(ctx, table)
		if err != nil {
			return err
		}
		counts[table] = n
	}

	logger.Info("seed complete",
		slog.Int("inlineImagesMoved", moved),
		slog.Int("modelsPublished", models),
		slog.Int("articlesPublished", articles),
		slog.Int("fakeUsers", len(users)),
		slog.Int("users", counts[store.Users]),
		slog.Int("models", counts[store.Models]),
		slog.Int("images", counts[store.Images]),
		slog.Int("comments", counts[store.Comments]),
	)
	return nil
}
