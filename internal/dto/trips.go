package dto

import (
	"strings"

	"github.com/google/uuid"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/services"
	"TRAVBUD_BACK-END/internal/utils"
)

// CreateTripRequest represents the payload to create a trip. Dates accept
// YYYY-MM-DD or RFC3339.
type CreateTripRequest struct {
	Destination  string   `json:"destination" validate:"required,max=100"`
	StartDate    string   `json:"startDate" validate:"required"`
	EndDate      string   `json:"endDate" validate:"required"`
	Budget       float64  `json:"budget" validate:"gte=0"`
	TravelTypes  []string `json:"travelTypes,omitempty" validate:"omitempty,unique,dive,required"`
	Description  string   `json:"description,omitempty" validate:"max=2000"`
	Activities   []string `json:"activities,omitempty"`
	MaxGroupSize int      `json:"maxGroupSize" validate:"required,gte=1"`
}

func (r CreateTripRequest) Input() (services.TripInput, error) {
	start, err := utils.ParseDate(r.StartDate)
	if err != nil {
		return services.TripInput{}, dateError("startDate")
	}
	end, err := utils.ParseDate(r.EndDate)
	if err != nil {
		return services.TripInput{}, dateError("endDate")
	}
	return services.TripInput{
		Destination:  strings.TrimSpace(r.Destination),
		StartDate:    start,
		EndDate:      end,
		Budget:       r.Budget,
		TravelTypes:  r.TravelTypes,
		Description:  r.Description,
		Activities:   r.Activities,
		MaxGroupSize: r.MaxGroupSize,
	}, nil
}

// UpdateTripRequest represents fields allowed to update a trip.
// All fields are optional; only provided ones will be updated. Photos are
// replaced only through uploads.
type UpdateTripRequest struct {
	Destination  *string  `json:"destination,omitempty" validate:"omitempty,min=1,max=100"`
	StartDate    *string  `json:"startDate,omitempty"`
	EndDate      *string  `json:"endDate,omitempty"`
	Budget       *float64 `json:"budget,omitempty" validate:"omitempty,gte=0"`
	TravelTypes  []string `json:"travelTypes,omitempty" validate:"omitempty,unique,dive,required"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Activities   []string `json:"activities,omitempty"`
	MaxGroupSize *int     `json:"maxGroupSize,omitempty" validate:"omitempty,gte=1"`
}

func (r UpdateTripRequest) Patch() (models.TripPatch, error) {
	p := models.TripPatch{
		Destination:  r.Destination,
		Budget:       r.Budget,
		TravelTypes:  r.TravelTypes,
		Description:  r.Description,
		Activities:   r.Activities,
		MaxGroupSize: r.MaxGroupSize,
	}
	if r.StartDate != nil {
		start, err := utils.ParseDate(*r.StartDate)
		if err != nil {
			return p, dateError("startDate")
		}
		p.StartDate = &start
	}
	if r.EndDate != nil {
		end, err := utils.ParseDate(*r.EndDate)
		if err != nil {
			return p, dateError("endDate")
		}
		p.EndDate = &end
	}
	return p, nil
}

// ApproveRequest represents POST /trips/approve
type ApproveRequest struct {
	TripID        uuid.UUID `json:"tripId" validate:"required"`
	ParticipantID uuid.UUID `json:"participantId" validate:"required"`
}

func dateError(field string) error {
	return apperr.Validation("Invalid date", apperr.FieldError{
		Field:   field,
		Message: "must be ISO 8601 format (YYYY-MM-DD or RFC3339)",
	})
}
