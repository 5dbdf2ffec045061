// Package seed fills a store with demo content: the sample catalog, the
// default sidebar articles and, on request, a fake community of users and
// comments. It is for development and demos only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/sakif/modelshare/internal/model"
	"github.com/sakif/modelshare/internal/news"
	"github.com/sakif/modelshare/internal/repository"
	"github.com/sakif/modelshare/internal/service"
	"github.com/sakif/modelshare/internal/store"
)

// Deps is what the seeder writes through.
type Deps struct {
	Models   *service.ModelService
	Comments *service.CommentService
	Users    *service.UserService
	Catalog  repository.ModelRepository
	Logger   *slog.Logger
}

type sampleModel struct {
	in        repository.NewModel
	downloads int
	likes     int
}

var sampleModels = []sampleModel{
	{
		in: repository.NewModel{
			Name:        "Realistic Portrait v2.0",
			Description: "A highly detailed model for creating realistic human portraits with enhanced facial features and natural lighting. Perfect for professional headshots and character creation.",
			ImageURL:    "https://images.unsplash.com/photo-1544005313-94ddf0286df2",
			Creator:     "ArtificialMuse",
			Tags:        []string{"portrait", "realistic", "face", "photography"},
			Version:     "2.0.0",
			BaseModel:   "SD XL 1.0",
			Images: []string{
				"https://images.unsplash.com/photo-1531746020798-e6953c6e8e04",
				"https://images.unsplash.com/photo-1552374196-c4e7ffc6e126",
				"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d",
			},
			TriggerWords: []string{"portrait", "realistic lighting", "detailed face"},
		},
		downloads: 12453,
		likes:     3242,
	},
	{
		in: repository.NewModel{
			Name:        "Anime Style Generator",
			Description: "Create beautiful anime-style illustrations with this specialized model. Perfect for character designs and scenes.",
			ImageURL:    "https://images.unsplash.com/photo-1578632767115-351597cf2477",
			Creator:     "AnimeArtist",
			Tags:        []string{"anime", "illustration", "character", "cartoon"},
			Version:     "1.5.0",
			BaseModel:   "SD 1.5",
			Images: []string{
				"https://images.unsplash.com/photo-1578632292335-df3abbb0d586",
				"https://images.unsplash.com/photo-1578632767061-24496a0b8929",
			},
			TriggerWords: []string{"anime style", "vibrant colors", "clean lines"},
		},
		downloads: 8976,
		likes:     2654,
	},
	{
		in: repository.NewModel{
			Name:        "Landscape Dreams",
			Description: "Generate stunning landscape images with dramatic lighting and atmospheric effects.",
			ImageURL:    "https://images.unsplash.com/photo-1506744038136-46273834b3fb",
			Creator:     "NatureCraft",
			Tags:        []string{"landscape", "nature", "scenery", "outdoor"},
			Version:     "1.0.1",
			BaseModel:   "SD XL Turbo",
			Images: []string{
				"https://images.unsplash.com/photo-1434725039720-aaad6dd32dfe",
				"https://images.unsplash.com/photo-1433086966358-54859d0ed716",
			},
			TriggerWords: []string{"landscape", "dramatic lighting", "nature"},
		},
		downloads: 6543,
		likes:     1897,
	},
}

var sampleArticles = []news.Draft{
	{
		Title:       "New Stable Diffusion XL Model Released",
		Content:     "Stability AI has released a new version of Stable Diffusion XL, featuring improved image generation capabilities and better understanding of prompts.",
		Author:      "ModelShare Team",
		Summary:     "Latest release brings major improvements to image generation",
		PublishedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		Title:       "Community Spotlight: Best Models of the Month",
		Content:     "Check out our curated selection of the most impressive and innovative models shared by our community this month.",
		Author:      "ModelShare Team",
		Summary:     "Monthly roundup of outstanding community contributions",
		PublishedAt: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	},
	{
		Title:       "Tutorial: Optimizing Your Model Training",
		Content:     "Learn essential tips and techniques for training your models more effectively and efficiently.",
		Author:      "ModelShare Team",
		Summary:     "Expert tips for better model training results",
		PublishedAt: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
	},
}

// Catalog publishes the sample models, with their download and like counts,
// when the catalog is empty. It returns how many models it published.
func Catalog(ctx context.Context, d Deps) (int, error) {
	for _, err := range d.Catalog.FindAll(ctx) {
		if err != nil {
			return 0, err
		}
		d.Logger.Info("catalog already populated, skipping")
		return 0, nil
	}

	for _, s := range sampleModels {
		m, err := d.Models.Publish(ctx, s.in)
		if err != nil {
			return 0, fmt.Errorf("seed: publishing %q: %w", s.in.Name, err)
		}
		downloads, likes := s.downloads, s.likes
		if _, err := d.Models.Edit(ctx, m.ID, repository.ModelPatch{Downloads: &downloads, Likes: &likes}); err != nil {
			return 0, fmt.Errorf("seed: setting counters on %q: %w", s.in.Name, err)
		}
	}
	return len(sampleModels), nil
}

// Articles publishes the default sidebar articles to an empty feed.
func Articles(ctx context.Context, feed *news.Feed) (int, error) {
	if feed.Len() > 0 {
		return 0, nil
	}
	for _, a := range sampleArticles {
		if _, err := feed.Publish(ctx, a); err != nil {
			return 0, fmt.Errorf("seed: publishing article %q: %w", a.Title, err)
		}
	}
	return len(sampleArticles), nil
}

// Community registers n fake users, each of whom leaves one comment on a
// randomly chosen model. It needs a non-empty catalog when n > 0.
func Community(ctx context.Context, d Deps, n int) ([]*model.User, error) {
	if n <= 0 {
		return nil, nil
	}

	models, err := store.Collect(d.Catalog.FindAll(ctx))
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("seed: community needs at least one model")
	}

	users := make([]*model.User, 0, n)
	for range n {
		password := gofakeit.Password(true, true, true, false, false, 12)
		u, err := d.Users.Register(ctx, service.RegisterForm{
			Username:        fakeUsername(),
			Email:           gofakeit.Email(),
			Password:        password,
			ConfirmPassword: password,
			AvatarURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		})
		if err != nil {
			return users, fmt.Errorf("seed: registering fake user: %w", err)
		}
		users = append(users, u)

		target := models[rand.IntN(len(models))]
		if _, err := d.Comments.Post(ctx, u.ID, target.ID, gofakeit.Sentence(12)); err != nil {
			return users, fmt.Errorf("seed: posting fake comment: %w", err)
		}
	}

	d.Logger.Info("community seeded", slog.Int("users", len(users)))
	return users, nil
}

// fakeUsername returns a gofakeit username with a random suffix, so repeated
// runs rarely collide on the unique index.
func fakeUsername() string {
	return fmt.Sprintf("%s%04d", truncateRunes(gofakeit.Username(), 40), rand.IntN(10000))
}

// truncateRunes keeps at most n characters of s without splitting one.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
