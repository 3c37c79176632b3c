package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleGuide Role = "guide"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleGuide || r == RoleAdmin
}

type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserBlocked UserStatus = "blocked"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserBlocked
}

// User represents a user in the system
type User struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	Status           UserStatus `json:"status"`
	IsVerified       bool       `json:"isVerified"`
	Photo            string     `json:"photo"`
	ContactNumber    *string    `json:"contactNumber,omitempty"`
	Bio              string     `json:"bio"`
	Age              *int       `json:"age,omitempty"`
	Gender           string     `json:"gender"`
	CurrentLocation  string     `json:"currentLocation"`
	TravelInterests  []string   `json:"travelInterests"`
	VisitedCountries []string   `json:"visitedCountries"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (u *User) IsBlocked() bool {
	return u.Status == UserBlocked
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Photo: u.Photo}
}

// UserSummary is the public projection embedded in trips and reviews.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Photo string    `json:"photo"`
}

// UserPatch carries optional updates. Nil fields are left untouched.
type UserPatch struct {
	Name             *string
	PasswordHash     *string
	Photo            *string
	ContactNumber    *string
	Bio              *string
	Age              *int
	Gender           *string
	CurrentLocation  *string
	TravelInterests  []string
	VisitedCountries []string
	Role             *Role
	Status           *UserStatus
	IsVerified       *bool
}

// UserFilter drives the admin user listing.
type UserFilter struct {
	SearchTerm string
	Role       Role
	Status     UserStatus
	IsVerified *bool
	Page
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
