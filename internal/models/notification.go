package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationJoinRequested NotificationType = "join_requested"
	NotificationJoinCancelled NotificationType = "join_cancelled"
	NotificationJoinApproved  NotificationType = "join_approved"
	NotificationTripCancelled NotificationType = "trip_cancelled"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationJoinRequested, NotificationJoinCancelled, NotificationJoinApproved, NotificationTripCancelled:
		return true
	}
	return false
}

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      map[string]any   `json:"data,omitempty"`
	ActionURL string           `json:"actionUrl,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
	ReadAt    *time.Time       `json:"readAt,omitempty"`
}

type NotificationFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Type       NotificationType
	Page
}
