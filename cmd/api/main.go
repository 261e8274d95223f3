package main

import (
	"context"
	"log"

	"github.com/bits-lost-found/go-backend/config"
	"github.com/bits-lost-found/go-backend/internal/auth"
	"github.com/bits-lost-found/go-backend/internal/bootstrap"
	"github.com/bits-lost-found/go-backend/internal/claims"
	"github.com/bits-lost-found/go-backend/internal/storage"
)

const serviceName = "lost-and-found-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN(),
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	verifier, err := buildVerifier(cfg)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	blobs, err := buildBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	deps := bootstrap.RouterDeps{
		ServiceName: serviceName,
		Config:      cfg,
		DB:          db,
		Verifier:    verifier,
		Blobs:       blobs,
	}

	if cfg.Redis.Addr != "" {
		rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			// The cache is best-effort; run without it rather than refuse to start.
			log.Printf("redis unavailable, listing cache disabled: %v", err)
		} else {
			defer rdb.Close()
			deps.Redis = rdb
		}
	}

	router, claimSvc := bootstrap.BuildRouter(deps)

	if spec := cfg.Claims.SweepSchedule; spec != "" {
		sweeper := claims.NewSweeper(claimSvc)
		if err := sweeper.Start(spec); err != nil {
			log.Fatalf("sweeper: %v", err)
		}
		defer sweeper.Stop()
	}

	log.Printf("%s v%s listening on :%s", serviceName, cfg.App.Version, cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func buildVerifier(cfg *config.Config) (auth.TokenVerifier, error) {
	if cfg.Auth.Provider == "firebase" {
		client, err := auth.InitializeFirebase(&cfg.Auth)
		if err != nil {
			return nil, err
		}
		return auth.NewFirebaseVerifier(client), nil
	}
	return auth.NewGoogleVerifier(cfg.Auth.GoogleClientID), nil
}

func buildBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	if cfg.Storage.Backend == "s3" {
		return storage.NewS3Store(ctx, cfg.Storage.S3Bucket, cfg.Storage.S3Region, cfg.Storage.S3PublicURL)
	}
	return storage.NewDiskStore(cfg.Storage.UploadDir, cfg.Storage.UploadBaseURL)
}
