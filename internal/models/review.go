package models

import (
	"time"

	"github.com/google/uuid"
)

// WebReview is a rating of the platform left by a user.
type WebReview struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	User      *UserSummary `json:"user,omitempty"`
}

type WebReviewPatch struct {
	Rating  *int
	Comment *string
}

// Subscriber is a newsletter address.
type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}
