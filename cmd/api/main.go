package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "roomcheck/internal/adapters/http_server"
	"roomcheck/internal/adapters/observability"
	"roomcheck/internal/adapters/policy"
	redisad "roomcheck/internal/adapters/redis"
	"roomcheck/internal/app"
	"roomcheck/internal/domain"
	"roomcheck/internal/shared"
	mysqlrepo "roomcheck/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	src := policySource(cfg)
	ins := app.NewInspectionService(src, repo, cache)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, I: ins})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// policySource picks the remote config client when configured, else a static
// default policy with the configured pass threshold.
func policySource(cfg shared.Config) domain.PolicySource {
	if cfg.PolicyBase != "" {
		cl, err := policy.New(cfg.PolicyBase, cfg.PolicyKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize policy client")
		}
		return cl
	}
	p := domain.DefaultPolicy()
	p.PassThreshold = cfg.PassThreshold
	return policy.Static{Policy: p}
}
