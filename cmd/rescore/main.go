package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"roomcheck/internal/adapters/observability"
	"roomcheck/internal/adapters/policy"
	redisad "roomcheck/internal/adapters/redis"
	"roomcheck/internal/app"
	"roomcheck/internal/domain"
	"roomcheck/internal/shared"
	mysqlrepo "roomcheck/internal/storage/mysql"
)

// Re-scores every stored inspection under the current policy. Run after a
// policy change so persisted results match what the API would compute today.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("policy_base", cfg.PolicyBase).
		Int("workers", cfg.Workers).
		Msg("rescore starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var src domain.PolicySource
	if cfg.PolicyBase != "" {
		src, err = policy.New(cfg.PolicyBase, cfg.PolicyKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize policy client")
		}
	} else {
		p := domain.DefaultPolicy()
		p.PassThreshold = cfg.PassThreshold
		src = policy.Static{Policy: p}
	}

	svc := app.NewInspectionService(src, repo, cache)

	ids, err := repo.ListInspectionIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list inspection IDs failed")
	}
	log.Info().Int("count", len(ids)).Msg("inspections to rescore")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range ids {
		id := id

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(inspectionID int64) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := svc.Rescore(ctx, inspectionID); err != nil {
				log.Warn().Int64("id", inspectionID).Err(err).Msg("rescore failed")
				return
			}
			log.Info().Int64("id", inspectionID).Msg("rescore ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("rescore completed")
}
