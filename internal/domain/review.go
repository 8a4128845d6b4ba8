package domain

import "time"

type Review struct {
	ID         int64
	HotelID    int64
	AuthorName string
	Rating     int // 1..5
	Comment    string
	IsApproved bool
	CreatedAt  time.Time
}
