package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripOpen      TripStatus = "Open"
	TripFull      TripStatus = "Full"
	TripCompleted TripStatus = "Completed"
	TripCancelled TripStatus = "Cancelled"
)

func (s TripStatus) Valid() bool {
	switch s {
	case TripOpen, TripFull, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further participation changes are allowed.
func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCancelled
}

type Participants struct {
	Pending  []uuid.UUID `json:"pending"`
	Approved []uuid.UUID `json:"approved"`
}

// Trip represents a travel trip created by a user
type Trip struct {
	ID           uuid.UUID    `json:"id"`
	OwnerID      uuid.UUID    `json:"ownerId"`
	Destination  string       `json:"destination"`
	StartDate    time.Time    `json:"startDate"`
	EndDate      time.Time    `json:"endDate"`
	Budget       float64      `json:"budget"`
	TravelTypes  []string     `json:"travelTypes"`
	Description  string       `json:"description"`
	Activities   []string     `json:"activities"`
	Photos       []string     `json:"photos"`
	MaxGroupSize int          `json:"maxGroupSize"`
	Participants Participants `json:"participants"`
	Status       TripStatus   `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`

	// Populated on reads only.
	Owner *UserSummary `json:"owner,omitempty"`
}

// DeriveStatus recomputes the lifecycle status at now. Cancelled is never
// overridden by recomputation.
func (t *Trip) DeriveStatus(now time.Time) TripStatus {
	if t.Status == TripCancelled {
		return TripCancelled
	}
	if t.EndDate.Before(now) {
		return TripCompleted
	}
	if len(t.Participants.Approved) >= t.MaxGroupSize {
		return TripFull
	}
	return TripOpen
}

func (t *Trip) IsPending(userID uuid.UUID) bool {
	return slices.Contains(t.Participants.Pending, userID)
}

func (t *Trip) IsApproved(userID uuid.UUID) bool {
	return slices.Contains(t.Participants.Approved, userID)
}

func (t *Trip) IsParticipant(userID uuid.UUID) bool {
	return t.IsPending(userID) || t.IsApproved(userID)
}

// CanMutate reports whether caller may change or remove the trip.
func CanMutate(t *Trip, caller Caller) bool {
	return caller.IsAdmin() || caller.ID == t.OwnerID
}

// TripPatch carries optional updates. Nil fields are left untouched and a nil
// Photos slice keeps the current photos.
type TripPatch struct {
	Destination  *string
	StartDate    *time.Time
	EndDate      *time.Time
	Budget       *float64
	TravelTypes  []string
	Description  *string
	Activities   []string
	Photos       []string
	MaxGroupSize *int
}

// Apply returns a copy of t with the patch merged in.
func (p TripPatch) Apply(t Trip) Trip {
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Budget != nil {
		t.Budget = *p.Budget
	}
	if p.TravelTypes != nil {
		t.TravelTypes = p.TravelTypes
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Activities != nil {
		t.Activities = p.Activities
	}
	if p.Photos != nil {
		t.Photos = p.Photos
	}
	if p.MaxGroupSize != nil {
		t.MaxGroupSize = *p.MaxGroupSize
	}
	return t
}

// TripFilter is the search window for trip listings.
type TripFilter struct {
	SearchTerm  string
	Status      TripStatus
	MinBudget   *float64
	MaxBudget   *float64
	TravelTypes []string
	StartFrom   *time.Time
	EndBy       *time.Time
	OwnerID     *uuid.UUID
	Page
}

// TripSortColumns whitelists the sortable fields and their columns.
var TripSortColumns = map[string]string{
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"startDate":    "start_date",
	"endDate":      "end_date",
	"budget":       "budget",
	"destination":  "destination",
	"maxGroupSize": "max_group_size",
	"status":       "status",
}

const DefaultTripPageLimit = 3

// TripWithParticipants is the owner view of a trip with resolved profiles.
type TripWithParticipants struct {
	Trip
	PendingUsers  []UserSummary `json:"pendingUsers"`
	ApprovedUsers []UserSummary `json:"approvedUsers"`
}
