package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"barrio_hotels/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// mysqlDuplicateEntry is error 1062 (unique constraint violation).
const mysqlDuplicateEntry = 1062

func scanHotel(row interface{ Scan(...any) error }) (domain.Hotel, error) {
	var h domain.Hotel
	var photosJSON, amenitiesJSON []byte
	if err := row.Scan(
		&h.ID, &h.Name, &h.Description, &h.Address, &h.Neighborhood,
		&photosJSON, &amenitiesJSON, &h.CreatedAt, &h.UpdatedAt,
	); err != nil {
		return domain.Hotel{}, err
	}
	if err := json.Unmarshal(photosJSON, &h.Photos); err != nil {
		return domain.Hotel{}, fmt.Errorf("decode photos for hotel %d: %w", h.ID, err)
	}
	if err := json.Unmarshal(amenitiesJSON, &h.Amenities); err != nil {
		return domain.Hotel{}, fmt.Errorf("decode amenities for hotel %d: %w", h.ID, err)
	}
	return h, nil
}

func scanReview(row interface{ Scan(...any) error }) (domain.Review, error) {
	var rv domain.Review
	err := row.Scan(&rv.ID, &rv.HotelID, &rv.AuthorName, &rv.Rating, &rv.Comment, &rv.IsApproved, &rv.CreatedAt)
	return rv, err
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	photos, _ := json.Marshal(h.Photos)
	amenities, _ := json.Marshal(h.Amenities)
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name, h.Description, h.Address, h.Neighborhood, string(photos), string(amenities))
	if err != nil {
		return domain.Hotel{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.GetHotel(ctx, id)
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	photos, _ := json.Marshal(h.Photos)
	amenities, _ := json.Marshal(h.Amenities)
	res, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, h.Description, h.Address, h.Neighborhood, string(photos), string(amenities), h.ID)
	if err != nil {
		return domain.Hotel{}, err
	}
	// RowsAffected is 0 both for a missing row and a no-op update, so
	// re-read instead of inspecting it.
	_ = res
	return r.GetHotel(ctx, h.ID)
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteHotelReviewsSQL, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) InsertReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	res, err := r.db.ExecContext(ctx, insertReviewSQL, rv.HotelID, rv.AuthorName, rv.Rating, rv.Comment)
	if err != nil {
		return domain.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Review{}, err
	}
	out, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if err != nil {
		return domain.Review{}, err
	}
	return out, nil
}

// ApproveReview locks the row, so a concurrent remove either happens before
// (this call then fails with ErrNotFound) or waits until the flag is set.
func (r *Repo) ApproveReview(ctx context.Context, id int64) (domain.Review, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Review{}, err
	}
	defer func() { _ = tx.Rollback() }()

	rv, err := scanReview(tx.QueryRowContext(ctx, getReviewForUpdateSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Review{}, err
	}
	if !rv.IsApproved {
		if _, err := tx.ExecContext(ctx, approveReviewSQL, id); err != nil {
			return domain.Review{}, err
		}
		rv.IsApproved = true
	}
	return rv, tx.Commit()
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) listReviews(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) ListApprovedReviews(ctx context.Context, hotelID int64) ([]domain.Review, error) {
	return r.listReviews(ctx, listApprovedReviewsSQL, hotelID)
}

func (r *Repo) ListPendingReviews(ctx context.Context) ([]domain.Review, error) {
	return r.listReviews(ctx, listPendingReviewsSQL)
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Username, u.PasswordHash, u.IsAdmin)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return domain.User{}, &domain.ValidationError{Field: "username", Reason: "is already taken"}
		}
		return domain.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, getUserByUsernameSQL, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}
