package main

import (
	"context"

	"github.com/yigit/enrollhub/internal/app/migrations"
	"github.com/yigit/enrollhub/internal/bootstrap"
	"github.com/yigit/enrollhub/internal/db"
)

// connectBackend loads the config, opens the database pool and builds the
// services the commands use.
func connectBackend(ctx context.Context, configPath string) (*Backend, func(), error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, nil, err
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	services := bootstrap.BuildServices(cfg, database, lgr)
	backend := &Backend{
		Migrate: func(ctx context.Context) (int, error) {
			return migrations.NewMigrator(database.Pool).Up(ctx)
		},
		Coordinators: services.Coordinators,
		Passwords:    services.Auth,
		Importer:     services.Import,
	}
	return backend, database.Close, nil
}
