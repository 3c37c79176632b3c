package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/config"
	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository"
)

const (
	defaultUserPageLimit = 10
	upcomingTripLimit    = 10
	msgNoUserWithID      = "No User found with this id."
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	Role             models.Role
	ContactNumber    *string
	Bio              string
	Age              *int
	Gender           string
	CurrentLocation  string
	TravelInterests  []string
	VisitedCountries []string
}

// AdminUserPatch is the moderation subset an admin may change.
type AdminUserPatch struct {
	Role       *models.Role
	Status     *models.UserStatus
	IsVerified *bool
}

// Overview summarizes a user's trips on their profile.
type Overview struct {
	TotalPlanTrip     int           `json:"totalPlanTrip"`
	TotalCompleteTrip int           `json:"totalCompleteTrip"`
	UpcomingTrips     []models.Trip `json:"upcomingTripList"`
}

type Profile struct {
	Profile  *models.User `json:"profile"`
	Overview Overview     `json:"overview"`
}

type UserService struct {
	users  UserStore
	trips  TripStore
	assets AssetStore
	now    Clock
}

func NewUserService(users UserStore, trips TripStore, assets AssetStore) *UserService {
	return &UserService{users: users, trips: trips, assets: assets, now: systemClock}
}

// Register creates an account. photo is already uploaded and is released if
// the account cannot be stored.
func (s *UserService) Register(ctx context.Context, in RegisterInput, photo string) (user *models.User, err error) {
	defer func() {
		if err != nil {
			releaseAssets(ctx, s.assets, []string{photo})
		}
	}()

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin || !role.Valid() {
		return nil, apperr.Validation("Invalid role", apperr.FieldError{Field: "role", Message: "role must be user or guide"})
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user = &models.User{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(in.Name),
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:     hash,
		Role:             role,
		Status:           models.UserActive,
		Photo:            photo,
		ContactNumber:    in.ContactNumber,
		Bio:              in.Bio,
		Age:              in.Age,
		Gender:           in.Gender,
		CurrentLocation:  in.CurrentLocation,
		TravelInterests:  nonNilStrings(in.TravelInterests),
		VisitedCountries: nonNilStrings(in.VisitedCountries),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}
	return user, nil
}

// Profile returns the user with an overview of the trips they own.
func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}

	now := s.now()
	total, err := s.trips.CountByOwner(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}
	_, completed, err := s.trips.FindMany(ctx, models.TripFilter{
		OwnerID: &id,
		Status:  models.TripCompleted,
		Page:    models.Page{Page: 1, Limit: 1},
	}, now)
	if err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}
	upcoming, _, err := s.trips.FindMany(ctx, models.TripFilter{
		OwnerID:   &id,
		StartFrom: &now,
		Page:      models.Page{Page: 1, Limit: upcomingTripLimit, SortBy: "startDate", SortOrder: "asc"},
	}, now)
	if err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}
	for i := range upcoming {
		upcoming[i].Status = upcoming[i].DeriveStatus(now)
	}

	return &Profile{
		Profile:  user,
		Overview: Overview{TotalPlanTrip: total, TotalCompleteTrip: completed, UpcomingTrips: upcoming},
	}, nil
}

// UpdateMe applies a self-service update. Role, status and verification are
// never changed here. A non-empty photo replaces the current one.
func (s *UserService) UpdateMe(ctx context.Context, id uuid.UUID, patch models.UserPatch, photo string) (user *models.User, err error) {
	defer func() {
		if err != nil {
			releaseAssets(ctx, s.assets, []string{photo})
		}
	}()

	patch.Role, patch.Status, patch.IsVerified, patch.PasswordHash = nil, nil, nil, nil
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}
	if photo != "" {
		patch.Photo = &photo
	}
	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}
	if photo != "" && current.Photo != "" && current.Photo != photo {
		releaseAssets(ctx, s.assets, []string{current.Photo})
	}
	return updated, nil
}

// ChangePassword replaces the caller's password.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.users.Update(ctx, id, models.UserPatch{PasswordHash: &hash})
	return storeErr(err, msgNoUserWithID)
}

// Moderate changes role, status or verification of id. Admins cannot demote
// or block themselves.
func (s *UserService) Moderate(ctx context.Context, id uuid.UUID, patch AdminUserPatch, caller models.Caller) (*models.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, apperr.Validation("Invalid role", apperr.FieldError{Field: "role", Message: "unknown role"})
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperr.Validation("Invalid status", apperr.FieldError{Field: "status", Message: "unknown status"})
	}
	if id == caller.ID &&
		((patch.Role != nil && *patch.Role != models.RoleAdmin) || (patch.Status != nil && *patch.Status == models.UserBlocked)) {
		return nil, apperr.Forbidden("You cannot change your own role or status")
	}

	updated, err := s.users.Update(ctx, id, models.UserPatch{Role: patch.Role, Status: patch.Status, IsVerified: patch.IsVerified})
	if err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}
	logger.FromContext(ctx).Info("User moderated",
		zap.String("user_id", id.String()),
		zap.String("by", caller.ID.String()),
		zap.String("role", string(updated.Role)),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// Delete removes the user together with the trips they own, then releases
// the user's photo and the trips' photos.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var photos []string
	for page := 1; ; page++ {
		owned, total, err := s.trips.FindMany(ctx, models.TripFilter{
			OwnerID: &id,
			Page:    models.Page{Page: page, Limit: models.MaxPageLimit},
		}, s.now())
		if err != nil {
			return nil, storeErr(err, msgNoUserWithID)
		}
		for _, t := range owned {
			photos = append(photos, t.Photos...)
		}
		if len(owned) == 0 || page*models.MaxPageLimit >= total {
			break
		}
	}

	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}
	releaseAssets(ctx, s.assets, append(photos, deleted.Photo))
	return deleted, nil
}

func (s *UserService) List(ctx context.Context, f models.UserFilter) (*Paged[models.User], error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, apperr.Validation("Invalid role", apperr.FieldError{Field: "role", Message: "unknown role"})
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("Invalid status", apperr.FieldError{Field: "status", Message: "unknown status"})
	}
	f.Page = f.Page.Normalize(defaultUserPageLimit)
	users, total, err := s.users.FindMany(ctx, f)
	if err != nil {
		return nil, storeErr(err, msgNoUserWithID)
	}
	return &Paged[models.User]{Items: users, Pagination: models.NewPagination(f.Page, total)}, nil
}

// EnsureSuperAdmin creates the configured admin account when it is missing.
func (s *UserService) EnsureSuperAdmin(ctx context.Context, cfg config.SuperAdminConfig) error {
	if cfg.Email == "" {
		return nil
	}
	log := logger.FromContext(ctx).With(zap.String("email", cfg.Email))

	_, err := s.users.FindByEmail(ctx, cfg.Email)
	if err == nil {
		log.Info("Super admin already exists")
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	now := s.now()
	admin := &models.User{
		ID:               uuid.New(),
		Name:             cfg.Name,
		Email:            strings.ToLower(cfg.Email),
		PasswordHash:     hash,
		Role:             models.RoleAdmin,
		Status:           models.UserActive,
		IsVerified:       true,
		TravelInterests:  []string{},
		VisitedCountries: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	log.Info("Super admin created")
	return nil
}
