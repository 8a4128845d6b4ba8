package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "barrio_hotels/internal/adapters/http_server"
	"barrio_hotels/internal/adapters/observability"
	redisad "barrio_hotels/internal/adapters/redis"
	"barrio_hotels/internal/app"
	"barrio_hotels/internal/shared"
	mysqlrepo "barrio_hotels/internal/storage/mysql"
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
	if err := mysqlrepo.EnsureSchema(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	sessions := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	auth := app.NewAuthService(repo, sessions, cfg.SessionTTL)
	queries := app.NewQueryService(repo, repo)
	commands := app.NewCommandService(repo, repo)

	// http
	srv := server.New(auth)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: queries, C: commands, A: auth})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
