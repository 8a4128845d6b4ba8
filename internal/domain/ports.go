package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	DeleteHotel(ctx context.Context, id int64) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error) // name ascending
}

type ReviewRepository interface {
	InsertReview(ctx context.Context, r Review) (Review, error)
	ApproveReview(ctx context.Context, id int64) (Review, error)
	DeleteReview(ctx context.Context, id int64) error

	// Newest first
	ListApprovedReviews(ctx context.Context, hotelID int64) ([]Review, error)
	ListPendingReviews(ctx context.Context) ([]Review, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

type SessionStore interface {
	Put(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, bool, error)
	Del(ctx context.Context, token string) error
}
