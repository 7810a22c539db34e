package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sspmdev/lessonproxy/cache"
	"github.com/sspmdev/lessonproxy/internal/config"
	"github.com/sspmdev/lessonproxy/internal/github"
	"github.com/sspmdev/lessonproxy/internal/jobs"
	"github.com/sspmdev/lessonproxy/internal/lessons"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	store := cache.NewRedis(client)

	origin, err := github.NewClient(cfg.GitHubToken, github.WithBaseURL(cfg.GitHubContentsURL))
	if err != nil {
		log.Fatalf("github client error: %v", err)
	}

	resolver := lessons.NewResolver(origin, store, cfg.CacheTTL, logger)

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			"prewarm": 5,
			"default": 5,
		},
	})
	mux := asynq.NewServeMux()

	mux.HandleFunc(jobs.TaskPrewarmLessons, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.PrewarmPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			logger.Error().Err(err).Msg("prewarm: bad payload")
			return err
		}
		return prewarm(ctx, resolver, logger, p)
	})

	if len(cfg.PrewarmPaths) > 0 {
		scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, nil)
		for _, raw := range cfg.PrewarmPaths {
			path, err := lessons.ParsePath(raw)
			if err != nil {
				log.Fatalf("prewarm path %q: %v", raw, err)
			}
			payload, _ := json.Marshal(jobs.PrewarmPayload{
				JobID: uuid.NewString(),
				Path:  path.Canonical(),
			})
			task := asynq.NewTask(jobs.TaskPrewarmLessons, payload)
			if _, err := scheduler.Register("@every "+cfg.PrewarmInterval.String(), task, asynq.Queue("prewarm")); err != nil {
				log.Fatalf("register prewarm schedule for %q: %v", raw, err)
			}
		}
		go func() {
			if err := scheduler.Run(); err != nil {
				log.Fatalf("scheduler error: %v", err)
			}
		}()
		logger.Info().Int("paths", len(cfg.PrewarmPaths)).Dur("interval", cfg.PrewarmInterval).Msg("prewarm schedule registered")
	}

	log.Println("Worker running...")
	log.Fatal(srv.Run(mux))
}

// lessonResolver is the slice of the resolver the prewarm handler needs.
type lessonResolver interface {
	Resolve(ctx context.Context, p lessons.Path) (*github.ContentResult, error)
}

func prewarm(ctx context.Context, resolver lessonResolver, logger zerolog.Logger, p jobs.PrewarmPayload) error {
	path, err := lessons.ParsePath(p.Path)
	if err != nil {
		logger.Error().Err(err).Str("job_id", p.JobID).Msg("prewarm: bad path, dropping")
		return nil
	}

	start := time.Now()
	_, err = resolver.Resolve(ctx, path)
	duration := time.Since(start)

	if err != nil {
		if isRetryableError(err) {
			logger.Warn().Err(err).Str("job_id", p.JobID).Str("path", p.Path).Dur("duration", duration).Msg("prewarm: retryable error")
			return err
		}
		logger.Error().Err(err).Str("job_id", p.JobID).Str("path", p.Path).Dur("duration", duration).Msg("prewarm: permanent error, dropping job")
		return nil
	}

	logger.Info().Str("job_id", p.JobID).Str("path", p.Path).Dur("duration", duration).Msg("prewarm: done")
	return nil
}

// isRetryableError determines if an error should trigger a job retry.
// Network failures and transient upstream statuses retry; missing content
// and client errors do not.
func isRetryableError(err error) bool {
	var transport *github.TransportError
	if errors.As(err, &transport) {
		return true
	}

	var upstream *github.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode == 429 || upstream.StatusCode >= 500
	}

	return false
}
