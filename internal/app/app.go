// Package app wires configuration, storage, and the authorization
// services into a single application container.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/digestcode/digest/internal/auth"
	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
	surrealstore "github.com/digestcode/digest/internal/storage/surrealdb"
)

// App holds the shared application state and services.
type App struct {
	Config  *common.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	Authentication *auth.AuthenticationService
	FirstParty     *auth.FirstPartyService
	OAuth2         *auth.OAuth2Service

	StartupTime time.Time
}

// New loads configuration, connects storage, and builds the services.
func New(configPaths ...string) (*App, error) {
	config, err := common.LoadConfig(configPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storage, err := surrealstore.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return NewWithStorage(config, logger, storage)
}

// NewWithStorage builds the application around an existing storage
// manager. Tests use it to swap in in-memory stores.
func NewWithStorage(config *common.Config, logger *common.Logger, storage interfaces.StorageManager) (*App, error) {
	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     storage,
		StartupTime: time.Now(),
	}

	a.Authentication = auth.NewAuthenticationService(config.Auth.Authentication, storage.Users(), storage.Memberships(), logger)
	a.FirstParty = auth.NewFirstPartyService(config.Auth.FirstParty, logger)
	a.OAuth2 = auth.NewOAuth2Service(storage.Clients(), config.Auth.OAuth2, logger)

	a.seedMemberships(context.Background())

	return a, nil
}

// seedMemberships makes sure the built-in roles exist. Failures are
// logged and tolerated; the roles are recreated on next startup.
func (a *App) seedMemberships(ctx context.Context) {
	for _, membership := range []*models.Membership{models.DefaultMembership(), models.AdminMembership()} {
		if _, err := a.Storage.Memberships().Get(ctx, membership.Name); err == nil {
			continue
		}
		if err := a.Storage.Memberships().Upsert(ctx, membership); err != nil {
			a.Logger.Warn().Err(err).Str("membership", membership.Name).Msg("Failed to seed membership")
		}
	}
}

// Close shuts down the application.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close reported an error")
		}
	}
	a.Logger.Info().Msg("Application closed")
}
