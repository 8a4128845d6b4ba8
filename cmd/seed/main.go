package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"barrio_hotels/internal/adapters/observability"
	"barrio_hotels/internal/app"
	"barrio_hotels/internal/domain"
	"barrio_hotels/internal/shared"
	mysqlrepo "barrio_hotels/internal/storage/mysql"
)

// seeder is run by an operator, so it acts as a synthetic admin.
var seedActor = domain.Actor{Username: "seed", IsAdmin: true, Authenticated: true}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Str("file", cfg.SeedFile).Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if err := mysqlrepo.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	commands := app.NewCommandService(repo, repo)

	ensureAdmin(ctx, repo, cfg)

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("read seed file failed")
	}
	var inputs []app.HotelInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, in := range inputs {
		in := in

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(in app.HotelInput) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := commands.CreateHotel(ctx, seedActor, in)
			if err != nil {
				log.Warn().Str("name", in.Name).Err(err).Msg("seed hotel failed")
				return
			}
			log.Info().Int64("id", h.ID).Str("name", h.Name).Str("neighborhood", h.Neighborhood).Msg("seeded")
		}(in)
	}
	wg.Wait()
	log.Info().Msg("seeding done")
}

func ensureAdmin(ctx context.Context, repo *mysqlrepo.Repo, cfg shared.Config) {
	if cfg.AdminPassword == "" {
		return
	}
	if _, err := repo.GetUserByUsername(ctx, cfg.AdminUsername); err == nil {
		log.Info().Str("username", cfg.AdminUsername).Msg("admin user exists")
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Fatal().Err(err).Msg("look up admin user failed")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash admin password failed")
	}
	u, err := repo.CreateUser(ctx, domain.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		IsAdmin:      true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create admin user failed")
	}
	log.Info().Int64("id", u.ID).Str("username", u.Username).Msg("admin user created")
}
