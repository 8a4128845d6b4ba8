//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"barrio_hotels/internal/domain"
	mysqlrepo "barrio_hotels/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	// Isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=barrio",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/barrio?parseTime=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := mysqlrepo.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func testHotel(name, neighborhood string) domain.Hotel {
	return domain.Hotel{
		Name:         name,
		Description:  "Una descripción suficientemente larga",
		Address:      "Calle 10 #20-30",
		Neighborhood: neighborhood,
		Photos:       []string{"https://example.com/p.jpg"},
		Amenities:    []string{"WiFi", "Piscina"},
	}
}

func TestRepo_MySQL_HotelAndReviewLifecycle(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// hotels come back in name order
	hB, err := repo.CreateHotel(ctx, testHotel("Hotel Bravo", "Laureles"))
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	hA, err := repo.CreateHotel(ctx, testHotel("Hotel Alfa", "El Poblado"))
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	all, err := repo.ListHotels(ctx)
	if err != nil {
		t.Fatalf("ListHotels: %v", err)
	}
	if len(all) != 2 || all[0].ID != hA.ID || all[1].ID != hB.ID {
		t.Fatalf("unexpected listing order: %+v", all)
	}

	// JSON columns round-trip
	got, err := repo.GetHotel(ctx, hA.ID)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if len(got.Photos) != 1 || len(got.Amenities) != 2 {
		t.Fatalf("photos/amenities lost: %+v", got)
	}

	// update persists and bumps UpdatedAt
	got.Name = "Hotel Alfa Renovado"
	upd, err := repo.UpdateHotel(ctx, got)
	if err != nil {
		t.Fatalf("UpdateHotel: %v", err)
	}
	if upd.Name != "Hotel Alfa Renovado" {
		t.Fatalf("update not applied: %+v", upd)
	}

	// reviews land unapproved and stay out of the public list
	rv, err := repo.InsertReview(ctx, domain.Review{
		HotelID:    hA.ID,
		AuthorName: "Ana",
		Rating:     5,
		Comment:    "Excelente, muy limpio y bien ubicado",
	})
	if err != nil {
		t.Fatalf("InsertReview: %v", err)
	}
	approved, err := repo.ListApprovedReviews(ctx, hA.ID)
	if err != nil || len(approved) != 0 {
		t.Fatalf("pending review leaked into approved list: %v %+v", err, approved)
	}
	pending, err := repo.ListPendingReviews(ctx)
	if err != nil || len(pending) != 1 || pending[0].ID != rv.ID {
		t.Fatalf("unexpected pending list: %v %+v", err, pending)
	}

	// approve twice is stable
	if _, err := repo.ApproveReview(ctx, rv.ID); err != nil {
		t.Fatalf("ApproveReview: %v", err)
	}
	again, err := repo.ApproveReview(ctx, rv.ID)
	if err != nil || !again.IsApproved {
		t.Fatalf("second approve: %v %+v", err, again)
	}
	approved, err = repo.ListApprovedReviews(ctx, hA.ID)
	if err != nil || len(approved) != 1 {
		t.Fatalf("approved review missing: %v %+v", err, approved)
	}

	// remove then approve reports NotFound
	if err := repo.DeleteReview(ctx, rv.ID); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	if _, err := repo.ApproveReview(ctx, rv.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("approve after delete: expected ErrNotFound, got %v", err)
	}

	// deleting a hotel takes its reviews with it
	if _, err := repo.InsertReview(ctx, domain.Review{
		HotelID:    hB.ID,
		AuthorName: "Bob",
		Rating:     3,
		Comment:    "Estuvo bien, nada especial",
	}); err != nil {
		t.Fatalf("InsertReview: %v", err)
	}
	if err := repo.DeleteHotel(ctx, hB.ID); err != nil {
		t.Fatalf("DeleteHotel: %v", err)
	}
	if _, err := repo.GetHotel(ctx, hB.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted hotel still readable: %v", err)
	}
	pending, err = repo.ListPendingReviews(ctx)
	if err != nil || len(pending) != 0 {
		t.Fatalf("orphan reviews survived cascade: %v %+v", err, pending)
	}
	if err := repo.DeleteHotel(ctx, hB.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestRepo_MySQL_Users(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, domain.User{
		Username:     "carolina",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		IsAdmin:      true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("id not assigned")
	}

	got, err := repo.GetUserByUsername(ctx, "carolina")
	if err != nil || got.ID != u.ID || !got.IsAdmin {
		t.Fatalf("GetUserByUsername: %v %+v", err, got)
	}

	// duplicate usernames surface as a validation error, not a 500
	_, err = repo.CreateUser(ctx, domain.User{Username: "carolina", PasswordHash: "x"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("duplicate username: expected ErrInvalidInput, got %v", err)
	}

	if _, err := repo.GetUserByUsername(ctx, "nadie"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing user: expected ErrNotFound, got %v", err)
	}
}
