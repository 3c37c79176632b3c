package dto

import (
	"strings"

	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/services"
)

// RegisterRequest represents the JSON "data" part of POST /users/register
type RegisterRequest struct {
	Name             string   `json:"name" validate:"required,max=100"`
	Email            string   `json:"email" validate:"required,email"`
	Password         string   `json:"password" validate:"required,min=6"`
	Role             string   `json:"role,omitempty" validate:"omitempty,oneof=user guide"`
	ContactNumber    *string  `json:"contactNumber,omitempty" validate:"omitempty,max=30"`
	Bio              string   `json:"bio,omitempty" validate:"max=100"`
	Age              *int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=130"`
	Gender           string   `json:"gender,omitempty" validate:"omitempty,oneof=Male Female"`
	CurrentLocation  string   `json:"currentLocation,omitempty"`
	TravelInterests  []string `json:"travelInterests,omitempty"`
	VisitedCountries []string `json:"visitedCountries,omitempty"`
}

func (r RegisterRequest) Input() services.RegisterInput {
	return services.RegisterInput{
		Name:             r.Name,
		Email:            r.Email,
		Password:         r.Password,
		Role:             models.Role(r.Role),
		ContactNumber:    r.ContactNumber,
		Bio:              r.Bio,
		Age:              r.Age,
		Gender:           r.Gender,
		CurrentLocation:  r.CurrentLocation,
		TravelInterests:  r.TravelInterests,
		VisitedCountries: r.VisitedCountries,
	}
}

// UpdateMeRequest represents the self-service profile update. Every field is
// optional; only provided ones are updated.
type UpdateMeRequest struct {
	Name             *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	ContactNumber    *string  `json:"contactNumber,omitempty" validate:"omitempty,max=30"`
	Bio              *string  `json:"bio,omitempty" validate:"omitempty,max=100"`
	Age              *int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=130"`
	Gender           *string  `json:"gender,omitempty" validate:"omitempty,oneof=Male Female"`
	CurrentLocation  *string  `json:"currentLocation,omitempty"`
	TravelInterests  []string `json:"travelInterests,omitempty"`
	VisitedCountries []string `json:"visitedCountries,omitempty"`
}

func (r UpdateMeRequest) Patch() models.UserPatch {
	p := models.UserPatch{
		ContactNumber:    r.ContactNumber,
		Bio:              r.Bio,
		Age:              r.Age,
		Gender:           r.Gender,
		CurrentLocation:  r.CurrentLocation,
		TravelInterests:  r.TravelInterests,
		VisitedCountries: r.VisitedCountries,
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		p.Name = &name
	}
	return p
}

// ChangePasswordRequest represents PATCH /users/update/password
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// AdminUserUpdateRequest is the moderation payload for PATCH /users/admin/:id
type AdminUserUpdateRequest struct {
	Role       *string `json:"role,omitempty" validate:"omitempty,oneof=user guide admin"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=active blocked"`
	IsVerified *bool   `json:"isVerified,omitempty"`
}

func (r AdminUserUpdateRequest) Patch() services.AdminUserPatch {
	var p services.AdminUserPatch
	if r.Role != nil {
		role := models.Role(*r.Role)
		p.Role = &role
	}
	if r.Status != nil {
		status := models.UserStatus(*r.Status)
		p.Status = &status
	}
	p.IsVerified = r.IsVerified
	return p
}
