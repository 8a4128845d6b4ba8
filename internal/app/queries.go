package app

import (
	"context"
	"strings"

	"barrio_hotels/internal/domain"
)

type QueryService struct {
	hotels  domain.HotelRepository
	reviews domain.ReviewRepository
}

func NewQueryService(h domain.HotelRepository, r domain.ReviewRepository) *QueryService {
	return &QueryService{hotels: h, reviews: r}
}

// ListHotels returns hotels ordered by name. A blank filter returns every
// hotel; otherwise the normalized filter must be a substring of the hotel's
// normalized neighborhood. No match is an empty result, never an error.
func (s *QueryService) ListHotels(ctx context.Context, neighborhood string) ([]domain.Hotel, error) {
	all, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	needle := domain.Normalize(neighborhood)
	if needle == "" {
		return all, nil
	}
	out := make([]domain.Hotel, 0, len(all))
	for _, h := range all {
		if strings.Contains(domain.Normalize(h.Neighborhood), needle) {
			out = append(out, h)
		}
	}
	return out, nil
}

// GetHotel returns the hotel with only its approved reviews (newest first)
// and the average rating over those reviews.
func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.HotelView, error) {
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	rs, err := s.reviews.ListApprovedReviews(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	return domain.HotelView{
		Hotel:         h,
		Reviews:       rs,
		AverageRating: domain.AverageRating(rs),
	}, nil
}

// ListPendingReviews is admin-only; it feeds the moderation queue.
func (s *QueryService) ListPendingReviews(ctx context.Context, actor domain.Actor) ([]domain.Review, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.reviews.ListPendingReviews(ctx)
}
