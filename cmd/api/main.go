// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/sspmdev/lessonproxy/cache"
	"github.com/sspmdev/lessonproxy/internal/config"
	"github.com/sspmdev/lessonproxy/internal/github"
	"github.com/sspmdev/lessonproxy/internal/http/routes"
	"github.com/sspmdev/lessonproxy/internal/lessons"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Printf("starting lesson proxy on :%s", cfg.Port)

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("cache error: %v", err)
	}

	origin, err := github.NewClient(cfg.GitHubToken, github.WithBaseURL(cfg.GitHubContentsURL))
	if err != nil {
		log.Fatalf("github client error: %v", err)
	}

	resolver := lessons.NewResolver(origin, store, cfg.CacheTTL, logger)

	s := routes.New(routes.ServerOptions{
		Resolver: resolver,
		Logger:   logger,
	})
	h := hlog.NewHandler(logger)(s.Router)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: h}
	log.Fatal(srv.ListenAndServe())
}

// newStore picks the cache backend from config.
func newStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.BackendFile:
		return cache.NewFileStore(cfg.CacheDir)
	case config.BackendMemory:
		return cache.NewMemory(), nil
	default:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return cache.NewRedis(client), nil
	}
}
