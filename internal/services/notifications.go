package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/models"
)

const (
	maxNotificationTitle         = 255
	maxNotificationMessage       = 10000
	defaultNotificationPageLimit = 20
)

type NotificationService struct {
	store NotificationStore
	now   Clock
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store, now: systemClock}
}

// NotificationPage adds the caller's unread count to a page.
type NotificationPage struct {
	Paged[models.Notification]
	UnreadCount int `json:"unreadCount"`
}

func (s *NotificationService) validate(n *models.Notification) error {
	switch {
	case n.UserID == uuid.Nil:
		return errors.New("user_id cannot be nil")
	case !n.Type.Valid():
		return errors.New("unknown notification type " + string(n.Type))
	case strings.TrimSpace(n.Title) == "":
		return errors.New("notification title is required")
	case len(n.Title) > maxNotificationTitle:
		return errors.New("notification title exceeds maximum length")
	case len(n.Message) > maxNotificationMessage:
		return errors.New("notification message exceeds maximum length")
	}
	return nil
}

// Notify records a notification. Delivery is best effort: failures are logged
// and never fail the calling operation.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) {
	if s == nil {
		return
	}
	n.ID = uuid.New()
	n.CreatedAt = s.now()
	log := logger.FromContext(ctx).With(zap.String("user_id", n.UserID.String()), zap.String("type", string(n.Type)))
	if err := s.validate(&n); err != nil {
		log.Warn("Dropping invalid notification", zap.Error(err))
		return
	}
	if err := s.store.Create(context.WithoutCancel(ctx), &n); err != nil {
		log.Error("Failed to create notification", zap.Error(err))
	}
}

func (s *NotificationService) List(ctx context.Context, f models.NotificationFilter) (*NotificationPage, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperr.Validation("Invalid type", apperr.FieldError{Field: "type", Message: "invalid notification type"})
	}
	f.Page = f.Page.Normalize(defaultNotificationPageLimit)
	items, total, unread, err := s.store.List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "Notifications not found")
	}
	return &NotificationPage{
		Paged:       Paged[models.Notification]{Items: items, Pagination: models.NewPagination(f.Page, total)},
		UnreadCount: unread,
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return storeErr(s.store.MarkRead(ctx, id, userID, s.now()), "Notification not found")
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.store.MarkAllRead(ctx, userID, s.now())
	return n, storeErr(err, "Notifications not found")
}
