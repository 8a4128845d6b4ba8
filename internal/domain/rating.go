package domain

import "math"

// AverageRating returns the arithmetic mean of the ratings rounded to one
// decimal place, or nil when there are no reviews. Zero reviews is an absent
// rating, not a rating of zero.
func AverageRating(rs []Review) *float64 {
	if len(rs) == 0 {
		return nil
	}
	sum := 0
	for _, r := range rs {
		sum += r.Rating
	}
	avg := math.Round(float64(sum)/float64(len(rs))*10) / 10
	return &avg
}
