package main

import (
	"context"
	"fmt"
	"os"

	"happythoughts/internal/auth"
	"happythoughts/internal/config"
	"happythoughts/internal/db"
	apperrors "happythoughts/internal/errors"
	"happythoughts/internal/logger"
	"happythoughts/internal/service"
)

type demoUser struct {
	Username string
	Password string
	Thoughts []string
}

var demoUsers = []demoUser{
	{
		Username: "alice",
		Password: "wonderland",
		Thoughts: []string{"Sunny morning, strong coffee.", "Finished the book I started in June!"},
	},
	{
		Username: "bob",
		Password: "builder42",
		Thoughts: []string{"The bike path by the river is open again."},
	},
	{
		Username: "carol",
		Password: "caroling",
		Thoughts: []string{"My tomatoes finally turned red.", "Called an old friend today.", "Pancakes for dinner."},
	},
}

type seedResult struct {
	UsersCreated    int
	UsersExisting   int
	UsersSkipped    int
	ThoughtsCreated int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Service: "happythoughts-seed", Level: cfg.LogLevel})
	ctx := context.Background()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	// The seed tool never shares a cache with the server, so token lookups
	// go straight to the store.
	tokenCache := auth.NewTokenCache(nil, cfg.TokenCacheTTL)
	authService := service.NewAuthService(store.Users, auth.NewBcryptHasher(), auth.RandomTokenGenerator{}, tokenCache)
	thoughtService := service.NewThoughtService(store.Thoughts)

	result, err := seed(ctx, log, authService, thoughtService, demoUsers)
	if err != nil {
		log.Error().Err(err).Msg("seed failed")
		return
	}

	log.Info().
		Int("users_created", result.UsersCreated).
		Int("users_existing", result.UsersExisting).
		Int("users_skipped", result.UsersSkipped).
		Int("thoughts_created", result.ThoughtsCreated).
		Msg("seed completed")
}

// seed registers each demo user, or signs in when the username is taken, and
// posts that user's thoughts with the token it got back. A taken username
// whose password differs is skipped.
func seed(
	ctx context.Context,
	log *logger.Logger,
	authService service.AuthService,
	thoughtService service.ThoughtService,
	users []demoUser,
) (seedResult, error) {
	var result seedResult

	for _, u := range users {
		identity, err := authService.Register(ctx, u.Username, u.Password)
		switch apperrors.KindOf(err) {
		case apperrors.KindUnknown:
			if err != nil {
				return result, fmt.Errorf("register %s: %w", u.Username, err)
			}
			result.UsersCreated++
		case apperrors.KindDuplicateUsername:
			identity, err = authService.Authenticate(ctx, u.Username, u.Password)
			if apperrors.KindOf(err) == apperrors.KindInvalidCredentials {
				log.Warn().Str("username", u.Username).Msg("username taken with another password, skipping")
				result.UsersSkipped++
				continue
			}
			if err != nil {
				return result, fmt.Errorf("sign in %s: %w", u.Username, err)
			}
			result.UsersExisting++
		default:
			return result, fmt.Errorf("register %s: %w", u.Username, err)
		}

		for _, message := range u.Thoughts {
			if _, err := thoughtService.Create(ctx, identity.Username, message, identity.AccessToken); err != nil {
				return result, fmt.Errorf("post thought for %s: %w", u.Username, err)
			}
			result.ThoughtsCreated++
		}
	}

	return result, nil
}
