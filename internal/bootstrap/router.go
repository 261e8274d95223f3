package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/bits-lost-found/go-backend/config"
	httpapi "github.com/bits-lost-found/go-backend/internal/api/http"
	"github.com/bits-lost-found/go-backend/internal/api/http/middleware"
	"github.com/bits-lost-found/go-backend/internal/auth"
	"github.com/bits-lost-found/go-backend/internal/claims"
	"github.com/bits-lost-found/go-backend/internal/items"
	"github.com/bits-lost-found/go-backend/internal/storage"
	"github.com/bits-lost-found/go-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	DB          *sql.DB
	Redis       *redis.Client // nil disables the listing cache
	Verifier    auth.TokenVerifier
	Blobs       storage.BlobStore
}

// BuildRouter wires repositories, services and handlers onto a gin engine.
// It also returns the claim service so main can hook up the expiry sweeper.
func BuildRouter(dep RouterDeps) (*gin.Engine, *claims.Service) {
	SetGinMode(dep.Config.App.Environment)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Config.App.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Config.App.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	var cache *items.ListingCache
	if dep.Redis != nil {
		ttl := time.Duration(dep.Config.Redis.CacheTTLSecs) * time.Second
		cache = items.NewListingCache(dep.Redis, ttl)
	}

	userRepo := users.NewRepo(dep.DB)
	itemRepo := items.NewRepo(dep.DB)
	claimRepo := claims.NewRepo(dep.DB)

	authSvc := auth.NewService(dep.Verifier, userRepo, dep.Config.Auth.AllowedDomain)
	itemSvc := items.NewService(itemRepo, dep.Blobs, cache)
	claimSvc := claims.NewService(claimRepo, cache,
		claims.RevertPolicy(dep.Config.Claims.RevertPolicy), dep.Config.Claims.ExpiryDays)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(rate.Limit(5), 10))
	auth.NewHandler(authSvc).Register(authGroup)

	items.NewHandler(itemSvc).Register(api.Group("/items"))
	claims.NewHandler(claimSvc).Register(api)

	// Dev convenience: serve disk-stored images from the upload dir.
	if disk, ok := dep.Blobs.(*storage.DiskStore); ok {
		r.Static(dep.Config.Storage.UploadBaseURL, disk.Dir())
	}

	return r, claimSvc
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}
