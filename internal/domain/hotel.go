package domain

import "time"

type Hotel struct {
	ID           int64
	Name         string
	Description  string
	Address      string
	Neighborhood string // stored verbatim; matching goes through Normalize
	Photos       []string
	Amenities    []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HotelView is the single-hotel read model: the hotel plus its approved
// reviews (newest first) and the rating derived from them.
type HotelView struct {
	Hotel
	Reviews       []Review
	AverageRating *float64
}
