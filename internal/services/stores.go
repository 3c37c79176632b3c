package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"TRAVBUD_BACK-END/internal/models"
)

// Store contracts consumed by the services. Implementations report
// repository.ErrNotFound, repository.ErrNoMatch and repository.ErrDuplicate.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error)
	FindMany(ctx context.Context, f models.UserFilter) ([]models.User, int, error)
	Update(ctx context.Context, id uuid.UUID, p models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type TripStore interface {
	Create(ctx context.Context, t *models.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	FindMany(ctx context.Context, f models.TripFilter, now time.Time) ([]models.Trip, int, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	FindByPendingUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error)
	FindByApprovedUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error)
	Update(ctx context.Context, id uuid.UUID, p models.TripPatch, now time.Time) (*models.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	AddPending(ctx context.Context, tripID, userID uuid.UUID, now time.Time) (*models.Trip, error)
	RemovePending(ctx context.Context, tripID, userID uuid.UUID, now time.Time) (*models.Trip, error)
	Approve(ctx context.Context, tripID, userID uuid.UUID, now time.Time, enforceCapacity bool) (*models.Trip, error)
	Cancel(ctx context.Context, tripID uuid.UUID, now time.Time) (*models.Trip, error)
}

type ReviewStore interface {
	Create(ctx context.Context, rv *models.WebReview) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.WebReview, error)
	FindLatest(ctx context.Context, limit int) ([]models.WebReview, error)
	Update(ctx context.Context, id uuid.UUID, p models.WebReviewPatch) (*models.WebReview, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, f models.NotificationFilter) (items []models.Notification, total, unread int, err error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, now time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

type SubscriberStore interface {
	Create(ctx context.Context, s *models.Subscriber) error
	List(ctx context.Context, p models.Page) ([]models.Subscriber, int, error)
	Delete(ctx context.Context, email string) error
}

// AssetStore holds uploaded photos addressed by their public URL.
type AssetStore interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Cache is a byte cache with per-key expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Mailer sends transactional email.
type Mailer interface {
	SendWelcome(ctx context.Context, email string) error
}
