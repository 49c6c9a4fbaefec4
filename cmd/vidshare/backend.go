package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/infrastructure/config"
	"github.com/vidshare/vidshare/internal/infrastructure/db/mongo"
	"github.com/vidshare/vidshare/internal/infrastructure/db/postgres"
	"github.com/vidshare/vidshare/internal/infrastructure/http/handlers"
	"github.com/vidshare/vidshare/internal/infrastructure/storage"
)

// objectStore is what the built-in stores offer: writes, public URLs and reads.
type objectStore interface {
	ports.ObjectStore
	ports.ObjectReader
	Bucket() string
}

// backend is the row store and object store selected by STORE.
type backend struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	videos   ports.VideoRepository
	views    ports.ViewRepository
	objects  objectStore

	checks map[string]handlers.Checker
	close  func(ctx context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Store {
	case config.StorePostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return openMongo(ctx, cfg, log)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	return &backend{
		users:    mongo.NewUserRepository(db),
		profiles: mongo.NewProfileRepository(db),
		videos:   mongo.NewVideoRepository(db),
		views:    mongo.NewViewRepository(db),
		objects:  mongo.NewGridFSStore(db, cfg.Upload.Bucket, cfg.PublicBaseURL, 0),
		checks: map[string]handlers.Checker{
			"mongodb": func(ctx context.Context) error { return mongo.Ping(ctx, client) },
		},
		close: func(ctx context.Context) error { return disconnectMongo(ctx, client) },
	}, nil
}

func disconnectMongo(ctx context.Context, client *mongodriver.Client) error {
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	db, err := postgres.NewConnection(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, err
	}
	if err := postgres.InitSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	objects, err := storage.NewFilesystemStore(cfg.Upload.Dir, cfg.Upload.Bucket, cfg.PublicBaseURL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info().Str("objects_dir", cfg.Upload.Dir).Msg("connected to PostgreSQL")

	return &backend{
		users:    postgres.NewUserRepo(db),
		profiles: postgres.NewProfileRepo(db),
		videos:   postgres.NewVideoRepo(db),
		views:    postgres.NewViewRepo(db),
		objects:  objects,
		checks: map[string]handlers.Checker{
			"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
		},
		close: func(context.Context) error { return closeSQL(db) },
	}, nil
}

func closeSQL(db *sql.DB) error {
	if err := db.Close(); err != nil {
		return fmt.Errorf("postgres close: %w", err)
	}
	return nil
}
