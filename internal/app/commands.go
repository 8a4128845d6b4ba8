package app

import (
	"context"

	"barrio_hotels/internal/domain"
)

type CommandService struct {
	hotels  domain.HotelRepository
	reviews domain.ReviewRepository
}

func NewCommandService(h domain.HotelRepository, r domain.ReviewRepository) *CommandService {
	return &CommandService{hotels: h, reviews: r}
}

// ReviewInput is what a visitor submits. Ratings are whole stars; the
// comment minimum keeps one-word reviews out of the moderation queue.
type ReviewInput struct {
	AuthorName string `json:"authorName" validate:"required,min=2,max=120"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"required,min=10"`
}

// SubmitReview is the only write path for review content. The review is
// persisted unapproved and stays invisible until a moderator approves it.
func (s *CommandService) SubmitReview(ctx context.Context, hotelID int64, in ReviewInput) (domain.Review, error) {
	if _, err := s.hotels.GetHotel(ctx, hotelID); err != nil {
		return domain.Review{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Review{}, err
	}
	return s.reviews.InsertReview(ctx, domain.Review{
		HotelID:    hotelID,
		AuthorName: in.AuthorName,
		Rating:     in.Rating,
		Comment:    in.Comment,
	})
}

// ApproveReview flips the approval flag. Approving an already-approved
// review is a no-op; approving a removed one fails with ErrNotFound.
func (s *CommandService) ApproveReview(ctx context.Context, actor domain.Actor, id int64) (domain.Review, error) {
	if err := RequireAdmin(actor); err != nil {
		return domain.Review{}, err
	}
	return s.reviews.ApproveReview(ctx, id)
}

// RemoveReview deletes a review in any state.
func (s *CommandService) RemoveReview(ctx context.Context, actor domain.Actor, id int64) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	return s.reviews.DeleteReview(ctx, id)
}

type HotelInput struct {
	Name         string   `json:"name" validate:"required,min=2,max=200"`
	Description  string   `json:"description" validate:"required,min=10"`
	Address      string   `json:"address" validate:"required,min=5,max=300"`
	Neighborhood string   `json:"neighborhood" validate:"required,min=2,max=120"`
	Photos       []string `json:"photos" validate:"required,min=1,dive,url"`
	Amenities    []string `json:"amenities" validate:"required,min=1,dive,min=1"`
}

// HotelPatch is a partial update; nil fields keep their stored value.
type HotelPatch struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Address      *string  `json:"address"`
	Neighborhood *string  `json:"neighborhood"`
	Photos       []string `json:"photos"`
	Amenities    []string `json:"amenities"`
}

func (s *CommandService) CreateHotel(ctx context.Context, actor domain.Actor, in HotelInput) (domain.Hotel, error) {
	if err := RequireAdmin(actor); err != nil {
		return domain.Hotel{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Hotel{}, err
	}
	return s.hotels.CreateHotel(ctx, domain.Hotel{
		Name:         in.Name,
		Description:  in.Description,
		Address:      in.Address,
		Neighborhood: in.Neighborhood,
		Photos:       in.Photos,
		Amenities:    in.Amenities,
	})
}

func (s *CommandService) UpdateHotel(ctx context.Context, actor domain.Actor, id int64, patch HotelPatch) (domain.Hotel, error) {
	if err := RequireAdmin(actor); err != nil {
		return domain.Hotel{}, err
	}
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if patch.Name != nil {
		h.Name = *patch.Name
	}
	if patch.Description != nil {
		h.Description = *patch.Description
	}
	if patch.Address != nil {
		h.Address = *patch.Address
	}
	if patch.Neighborhood != nil {
		h.Neighborhood = *patch.Neighborhood
	}
	if patch.Photos != nil {
		h.Photos = patch.Photos
	}
	if patch.Amenities != nil {
		h.Amenities = patch.Amenities
	}
	// the merged result must still satisfy every field rule
	merged := HotelInput{
		Name:         h.Name,
		Description:  h.Description,
		Address:      h.Address,
		Neighborhood: h.Neighborhood,
		Photos:       h.Photos,
		Amenities:    h.Amenities,
	}
	if err := validateInput(merged); err != nil {
		return domain.Hotel{}, err
	}
	return s.hotels.UpdateHotel(ctx, h)
}

// DeleteHotel removes the hotel and, by the cascade in the repository, all
// of its reviews.
func (s *CommandService) DeleteHotel(ctx context.Context, actor domain.Actor, id int64) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	return s.hotels.DeleteHotel(ctx, id)
}
