package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/enrollhub/internal/app/models"
	appRepos "github.com/yigit/enrollhub/internal/app/repositories"
	"github.com/yigit/enrollhub/internal/config"
	"github.com/yigit/enrollhub/internal/pkg/auth"
)

// CoordinatorCreator stores coordinator accounts.
type CoordinatorCreator interface {
	Create(ctx context.Context, c *appModels.Coordinator) error
}

// CreateDefaultData creates the default coordinator account if it does not exist.
// Nothing is seeded while no coordinator password is configured.
func CreateDefaultData(ctx context.Context, coordinators CoordinatorCreator, hasher auth.PasswordHasher, cfg config.SeedConfig, lgr zerolog.Logger) error {
	if cfg.CoordinatorPassword == "" {
		lgr.Info().Msg("No default coordinator password configured, skipping seed")
		return nil
	}

	hash, err := hasher.Hash(cfg.CoordinatorPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default coordinator password: %w", err)
	}

	gender := "Male"
	coordinator := &appModels.Coordinator{
		CoordinatorID: cfg.CoordinatorID,
		LastName:      "Admin",
		FirstName:     "System",
		Gender:        &gender,
		Email:         cfg.CoordinatorEmail,
		PasswordHash:  hash,
	}

	err = coordinators.Create(ctx, coordinator)
	switch {
	case errors.Is(err, appRepos.ErrDuplicateID), errors.Is(err, appRepos.ErrDuplicateEmail):
		lgr.Debug().Str("coordinatorID", cfg.CoordinatorID).Msg("Default coordinator already exists")
		return nil
	case err != nil:
		lgr.Error().Err(err).Msg("Error creating default coordinator")
		return err
	}

	lgr.Info().Str("coordinatorID", cfg.CoordinatorID).Msg("Default coordinator created")
	return nil
}
