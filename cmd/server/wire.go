// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Schwifty101/arco-backend/internal/app"
	"github.com/Schwifty101/arco-backend/internal/audit"
	"github.com/Schwifty101/arco-backend/internal/auth"
	"github.com/Schwifty101/arco-backend/internal/config"
	"github.com/Schwifty101/arco-backend/internal/identity"
	"github.com/Schwifty101/arco-backend/internal/platform/database"
	"github.com/Schwifty101/arco-backend/internal/platform/logger"
	"github.com/Schwifty101/arco-backend/internal/profile"
	"github.com/Schwifty101/arco-backend/internal/whitelist"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Identity backend
		identity.NewSupabaseClient,
		wire.Bind(new(identity.Client), new(*identity.SupabaseClient)),

		// Profile store, whitelist, audit
		profile.NewGORMRepository,
		whitelist.NewEnvLookup,
		wire.Bind(new(whitelist.Lookup), new(*whitelist.EnvLookup)),
		audit.NewGORMRecorder,
		wire.Bind(new(audit.Recorder), new(*audit.GORMRecorder)),

		// Orchestrator and transport
		auth.NewService,
		auth.NewHandler,

		// Application layer
		app.NewServer,
	)
	return nil, nil, nil
}
