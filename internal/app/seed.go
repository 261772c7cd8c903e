package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sparkmatch/backend/internal/config"
	"github.com/sparkmatch/backend/internal/db"
	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/repositories"
)

const (
	defaultSeedUsers = 25
	seedPassword     = "password123"
)

// runSeed fills the database with fake accounts and a sprinkling of likes so
// local development has data to work with. Reciprocal likes produce matches
// through the normal submission path.
func runSeed(ctx context.Context, args []string) error {
	count := defaultSeedUsers
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			return fmt.Errorf("seed count must be a positive integer, got %q", args[0])
		}
		count = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := repositories.NewPostgresUserRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	storyRepo := repositories.NewPostgresStoryRepository(pool)

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	faker := gofakeit.New(0)
	now := time.Now().UTC()

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			ID:        uuid.NewString(),
			Email:     fmt.Sprintf("%d.%s", i, faker.Email()),
			Password:  string(hashed),
			CreatedAt: now,
			UpdatedAt: now,
			Profile: models.Profile{
				DisplayName:  faker.Name(),
				AvatarURL:    faker.ImageURL(256, 256),
				Bio:          faker.Sentence(12),
				Birthdate:    faker.DateRange(now.AddDate(-45, 0, 0), now.AddDate(-18, 0, 0)).Format("2006-01-02"),
				Gender:       faker.Gender(),
				InterestedIn: faker.RandomString([]string{"men", "women", "everyone"}),
				City:         faker.City(),
				JobTitle:     faker.JobTitle(),
				Education:    faker.Company(),
				Interests:    faker.Hobby(),
			},
		}

		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
		ids = append(ids, user.ID)
	}

	likeCount := 0
	matchCount := 0
	for _, likerID := range ids {
		for attempts := faker.Number(1, 4); attempts > 0; attempts-- {
			likedID := ids[faker.Number(0, len(ids)-1)]
			if likedID == likerID {
				continue
			}
			result, err := likes.Submit(ctx, likerID, likedID, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("seed like: %w", err)
			}
			if !result.AlreadyLiked {
				likeCount++
			}
			if result.Matched {
				matchCount++
			}
		}
	}

	storyCount := 0
	for _, ownerID := range ids {
		if faker.Number(0, 2) != 0 {
			continue
		}
		story := models.Story{
			ID:        uuid.NewString(),
			OwnerID:   ownerID,
			MediaKey:  fmt.Sprintf("seed/%s.jpg", uuid.NewString()),
			MediaURL:  faker.ImageURL(720, 1280),
			Caption:   faker.Sentence(6),
			IsPublic:  faker.Bool(),
			CreatedAt: now,
			ExpiresAt: now.Add(cfg.StoryTTL),
		}
		if err := storyRepo.Create(ctx, story); err != nil {
			return fmt.Errorf("seed story: %w", err)
		}
		storyCount++
	}

	fmt.Printf("seeded %d users, %d likes, %d matches, %d stories\n", len(ids), likeCount, matchCount, storyCount)
	return nil
}
