package services

import (
	"context"

	"github.com/google/uuid"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/models"
)

const (
	defaultReviewLimit = 10
	msgReviewNotFound  = "Review not found"
	msgReviewNotOwned  = "User does not own this review"
)

// ReviewService manages website reviews. Only the author or an admin may
// change a review.
type ReviewService struct {
	reviews ReviewStore
	now     Clock
}

func NewReviewService(reviews ReviewStore) *ReviewService {
	return &ReviewService{reviews: reviews, now: systemClock}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperr.Validation("Rating must be between 1 and 5",
			apperr.FieldError{Field: "rating", Message: "must be between 1 and 5"})
	}
	return nil
}

func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, rating int, comment string) (*models.WebReview, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	now := s.now()
	rv := &models.WebReview{
		ID:        uuid.New(),
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, storeErr(err, msgReviewNotFound)
	}
	return rv, nil
}

func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*models.WebReview, error) {
	rv, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgReviewNotFound)
	}
	return rv, nil
}

// List returns the newest reviews, limit defaulting to 10 and capped at 100.
func (s *ReviewService) List(ctx context.Context, limit int) ([]models.WebReview, error) {
	limit = models.Page{Limit: limit}.Normalize(defaultReviewLimit).Limit
	reviews, err := s.reviews.FindLatest(ctx, limit)
	if err != nil {
		return nil, storeErr(err, msgReviewNotFound)
	}
	return reviews, nil
}

func (s *ReviewService) authorize(ctx context.Context, id uuid.UUID, caller models.Caller) error {
	rv, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, msgReviewNotFound)
	}
	if rv.UserID != caller.ID && !caller.IsAdmin() {
		return apperr.Forbidden(msgReviewNotOwned)
	}
	return nil
}

func (s *ReviewService) Update(ctx context.Context, id uuid.UUID, patch models.WebReviewPatch, caller models.Caller) (*models.WebReview, error) {
	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return nil, err
		}
	}
	if err := s.authorize(ctx, id, caller); err != nil {
		return nil, err
	}
	rv, err := s.reviews.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err, msgReviewNotFound)
	}
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID, caller models.Caller) error {
	if err := s.authorize(ctx, id, caller); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return storeErr(err, msgReviewNotFound)
	}
	return nil
}
