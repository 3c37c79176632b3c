package services

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository"
)

const (
	msgTripNotFound      = "Trip not found"
	msgUserNotFound      = "User not found"
	msgNoPendingRequest  = "No pending request found for this trip"
	msgAlreadyRequested  = "You have already requested to join this trip"
	msgAlreadyApproved   = "User is already an approved participant"
	msgTripForbidden     = "You are not allowed to modify this trip"
	msgInvalidDateRange  = "End date must be on or after start date"
	msgGroupBelowMembers = "Max group size cannot be lower than the number of approved participants"
)

// TripOptions switches business rules per deployment.
type TripOptions struct {
	// EnforceCapacity rejects approvals once approved reaches maxGroupSize.
	EnforceCapacity bool
	// UnverifiedQuota is the number of trips an unverified owner may create.
	UnverifiedQuota int
	// HomeCache holds the explorer feed; it is cleared after every trip
	// write that can change what the feed shows. Optional.
	HomeCache Cache
}

// TripInput is the create payload.
type TripInput struct {
	Destination  string
	StartDate    time.Time
	EndDate      time.Time
	Budget       float64
	TravelTypes  []string
	Description  string
	Activities   []string
	MaxGroupSize int
}

// TripService is the trip lifecycle engine: status derivation, participation
// requests and owner-or-admin mutation.
type TripService struct {
	trips    TripStore
	users    UserStore
	assets   AssetStore
	notifier *NotificationService
	opts     TripOptions
	now      Clock
}

func NewTripService(trips TripStore, users UserStore, assets AssetStore, notifier *NotificationService, opts TripOptions) *TripService {
	return &TripService{
		trips:    trips,
		users:    users,
		assets:   assets,
		notifier: notifier,
		opts:     opts,
		now:      systemClock,
	}
}

// invalidateHome drops the cached explorer feed. A failure only delays the
// refresh until the entry expires.
func (s *TripService) invalidateHome(ctx context.Context) {
	if s.opts.HomeCache == nil {
		return
	}
	if err := s.opts.HomeCache.Delete(context.WithoutCancel(ctx), homeCacheKey); err != nil {
		logger.FromContext(ctx).Warn("Home cache invalidation failed", zap.Error(err))
	}
}

// present applies read-time status derivation.
func (s *TripService) present(t *models.Trip) *models.Trip {
	t.Status = t.DeriveStatus(s.now())
	return t
}

func (s *TripService) presentAll(trips []models.Trip) []models.Trip {
	for i := range trips {
		s.present(&trips[i])
	}
	return trips
}

func (s *TripService) loadTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	t, err := s.trips.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}
	return t, nil
}

func (s *TripService) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}
	return u, nil
}

func validateDates(start, end time.Time) error {
	if start.After(end) {
		return apperr.Validation(msgInvalidDateRange, apperr.FieldError{Field: "endDate", Message: msgInvalidDateRange})
	}
	return nil
}

// CreateTrip publishes a trip for ownerID. photos are already uploaded and are
// released again if the trip cannot be stored.
func (s *TripService) CreateTrip(ctx context.Context, ownerID uuid.UUID, in TripInput, photos []string) (trip *models.Trip, err error) {
	defer func() {
		if err != nil {
			releaseAssets(ctx, s.assets, photos)
		}
	}()

	owner, err := s.loadUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.IsBlocked() {
		return nil, apperr.ErrAccountBlocked
	}
	if !owner.IsVerified {
		count, err := s.trips.CountByOwner(ctx, ownerID)
		if err != nil {
			return nil, storeErr(err, msgUserNotFound)
		}
		if count >= s.opts.UnverifiedQuota {
			return nil, apperr.ErrQuotaExceeded
		}
	}
	if err := validateDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	now := s.now()
	trip = &models.Trip{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Destination:  in.Destination,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Budget:       in.Budget,
		TravelTypes:  nonNilStrings(in.TravelTypes),
		Description:  in.Description,
		Activities:   nonNilStrings(in.Activities),
		Photos:       nonNilStrings(photos),
		MaxGroupSize: in.MaxGroupSize,
		Participants: models.Participants{Pending: []uuid.UUID{}, Approved: []uuid.UUID{}},
		Status:       models.TripOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	trip.Status = trip.DeriveStatus(now)

	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}
	tripsCreated.Inc()
	s.invalidateHome(ctx)
	return trip, nil
}

func (s *TripService) ListTrips(ctx context.Context, f models.TripFilter) (*Paged[models.Trip], error) {
	f.Page = f.Page.Normalize(models.DefaultTripPageLimit)
	trips, total, err := s.trips.FindMany(ctx, f, s.now())
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}
	return &Paged[models.Trip]{Items: s.presentAll(trips), Pagination: models.NewPagination(f.Page, total)}, nil
}

// ListMyTrips lists the owner's trips with participant profiles resolved.
func (s *TripService) ListMyTrips(ctx context.Context, ownerID uuid.UUID, f models.TripFilter) (*Paged[models.TripWithParticipants], error) {
	f.OwnerID = &ownerID
	page, err := s.ListTrips(ctx, f)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, t := range page.Items {
		ids = append(ids, t.Participants.Pending...)
		ids = append(ids, t.Participants.Approved...)
	}
	profiles, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}
	resolve := func(ids []uuid.UUID) []models.UserSummary {
		out := make([]models.UserSummary, 0, len(ids))
		for _, id := range ids {
			if p, ok := profiles[id]; ok {
				out = append(out, p)
			}
		}
		return out
	}

	items := make([]models.TripWithParticipants, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, models.TripWithParticipants{
			Trip:          t,
			PendingUsers:  resolve(t.Participants.Pending),
			ApprovedUsers: resolve(t.Participants.Approved),
		})
	}
	return &Paged[models.TripWithParticipants]{Items: items, Pagination: page.Pagination}, nil
}

func (s *TripService) GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	t, err := s.loadTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present(t), nil
}

// UpdateTrip applies patch when caller may mutate the trip. A non-nil
// patch.Photos holds freshly uploaded photos that replace the photo set; the replaced photos are released after
// the write and the new ones are released if the write fails.
func (s *TripService) UpdateTrip(ctx context.Context, id uuid.UUID, patch models.TripPatch, caller models.Caller) (trip *models.Trip, err error) {
	defer func() {
		if err != nil {
			releaseAssets(ctx, s.assets, patch.Photos)
		}
	}()

	current, err := s.loadTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanMutate(current, caller) {
		return nil, apperr.Forbidden(msgTripForbidden)
	}
	merged := patch.Apply(*current)
	if err := validateDates(merged.StartDate, merged.EndDate); err != nil {
		return nil, err
	}
	if patch.MaxGroupSize != nil && *patch.MaxGroupSize < len(current.Participants.Approved) {
		return nil, apperr.Validation(msgGroupBelowMembers,
			apperr.FieldError{Field: "maxGroupSize", Message: msgGroupBelowMembers})
	}

	updated, err := s.trips.Update(ctx, id, patch, s.now())
	if errors.Is(err, repository.ErrNoMatch) {
		// deleted or gained participants since it was read
		if _, lerr := s.loadTrip(ctx, id); lerr != nil {
			return nil, lerr
		}
		return nil, apperr.Validation(msgGroupBelowMembers,
			apperr.FieldError{Field: "maxGroupSize", Message: msgGroupBelowMembers})
	}
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}

	if patch.Photos != nil {
		var replaced []string
		for _, p := range current.Photos {
			if !slices.Contains(patch.Photos, p) {
				replaced = append(replaced, p)
			}
		}
		releaseAssets(ctx, s.assets, replaced)
	}
	s.invalidateHome(ctx)
	return s.present(updated), nil
}

// DeleteTrip removes the trip and releases its photos.
func (s *TripService) DeleteTrip(ctx context.Context, id uuid.UUID, caller models.Caller) (*models.Trip, error) {
	current, err := s.loadTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanMutate(current, caller) {
		return nil, apperr.Forbidden(msgTripForbidden)
	}
	deleted, err := s.trips.Delete(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}
	releaseAssets(ctx, s.assets, deleted.Photos)
	s.invalidateHome(ctx)
	return deleted, nil
}

// CancelTrip moves an Open or Full trip to Cancelled. Cancelling a cancelled
// trip is a no-op.
func (s *TripService) CancelTrip(ctx context.Context, id uuid.UUID, caller models.Caller) (*models.Trip, error) {
	current, err := s.loadTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanMutate(current, caller) {
		return nil, apperr.Forbidden(msgTripForbidden)
	}
	switch current.DeriveStatus(s.now()) {
	case models.TripCancelled:
		return s.present(current), nil
	case models.TripCompleted:
		return nil, apperr.ErrTripClosed
	}

	cancelled, err := s.trips.Cancel(ctx, id, s.now())
	if errors.Is(err, repository.ErrNoMatch) {
		latest, lerr := s.loadTrip(ctx, id)
		if lerr != nil {
			return nil, lerr
		}
		if latest.Status == models.TripCancelled {
			return s.present(latest), nil
		}
		return nil, apperr.ErrTripClosed
	}
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}
	s.invalidateHome(ctx)

	for _, uid := range append(slices.Clone(cancelled.Participants.Approved), cancelled.Participants.Pending...) {
		s.notifier.Notify(ctx, models.Notification{
			UserID:    uid,
			Type:      models.NotificationTripCancelled,
			Title:     "Trip cancelled",
			Message:   "The trip to " + cancelled.Destination + " has been cancelled.",
			Data:      map[string]any{"tripId": cancelled.ID.String()},
			ActionURL: "/trips/" + cancelled.ID.String(),
		})
	}
	return s.present(cancelled), nil
}

// joinRejection explains why userID may not join t, or returns nil.
func (s *TripService) joinRejection(t *models.Trip, userID uuid.UUID) error {
	switch {
	case t.OwnerID == userID:
		return apperr.ErrOwnerCannotJoin
	case t.IsParticipant(userID):
		return apperr.Conflict(msgAlreadyRequested)
	case t.DeriveStatus(s.now()).Terminal():
		return apperr.ErrTripClosed
	}
	return nil
}

// RequestToJoin adds userID to the trip's pending list. Capacity is checked
// at approval, not here.
func (s *TripService) RequestToJoin(ctx context.Context, tripID, userID uuid.UUID) (trip *models.Trip, err error) {
	defer func() { recordParticipation("request", err) }()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked() {
		return nil, apperr.ErrAccountBlocked
	}
	current, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := s.joinRejection(current, userID); err != nil {
		return nil, err
	}

	updated, err := s.trips.AddPending(ctx, tripID, userID, s.now())
	if errors.Is(err, repository.ErrNoMatch) {
		return nil, s.explain(ctx, tripID, func(t *models.Trip) error { return s.joinRejection(t, userID) })
	}
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}

	s.notifier.Notify(ctx, models.Notification{
		UserID:    updated.OwnerID,
		Type:      models.NotificationJoinRequested,
		Title:     "New join request",
		Message:   user.Name + " wants to join your trip to " + updated.Destination + ".",
		Data:      map[string]any{"tripId": updated.ID.String(), "userId": userID.String()},
		ActionURL: "/trips/" + updated.ID.String(),
	})
	return s.present(updated), nil
}

// CancelJoinRequest withdraws userID's pending request.
func (s *TripService) CancelJoinRequest(ctx context.Context, tripID, userID uuid.UUID) (trip *models.Trip, err error) {
	defer func() { recordParticipation("cancel", err) }()

	current, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !current.IsPending(userID) {
		return nil, apperr.NotFound(msgNoPendingRequest)
	}

	updated, err := s.trips.RemovePending(ctx, tripID, userID, s.now())
	if errors.Is(err, repository.ErrNoMatch) {
		return nil, s.explain(ctx, tripID, func(*models.Trip) error { return apperr.NotFound(msgNoPendingRequest) })
	}
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}

	s.notifier.Notify(ctx, models.Notification{
		UserID:    updated.OwnerID,
		Type:      models.NotificationJoinCancelled,
		Title:     "Join request withdrawn",
		Message:   "A traveller withdrew their request to join your trip to " + updated.Destination + ".",
		Data:      map[string]any{"tripId": updated.ID.String(), "userId": userID.String()},
		ActionURL: "/trips/" + updated.ID.String(),
	})
	return s.present(updated), nil
}

// approveRejection explains why participantID may not be approved, or returns nil.
func (s *TripService) approveRejection(t *models.Trip, participantID uuid.UUID) error {
	switch {
	case t.IsApproved(participantID):
		return apperr.Conflict(msgAlreadyApproved)
	case !t.IsPending(participantID):
		return apperr.NotFound(msgNoPendingRequest)
	case t.DeriveStatus(s.now()).Terminal():
		return apperr.ErrTripClosed
	case s.opts.EnforceCapacity && len(t.Participants.Approved) >= t.MaxGroupSize:
		return apperr.ErrCapacityReached
	}
	return nil
}

// ApproveJoinRequest promotes participantID from pending to approved.
func (s *TripService) ApproveJoinRequest(ctx context.Context, tripID uuid.UUID, caller models.Caller, participantID uuid.UUID) (trip *models.Trip, err error) {
	defer func() { recordParticipation("approve", err) }()

	current, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !models.CanMutate(current, caller) {
		return nil, apperr.Forbidden(msgTripForbidden)
	}
	if err := s.approveRejection(current, participantID); err != nil {
		return nil, err
	}

	updated, err := s.trips.Approve(ctx, tripID, participantID, s.now(), s.opts.EnforceCapacity)
	if errors.Is(err, repository.ErrNoMatch) {
		return nil, s.explain(ctx, tripID, func(t *models.Trip) error { return s.approveRejection(t, participantID) })
	}
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}
	s.invalidateHome(ctx)

	s.notifier.Notify(ctx, models.Notification{
		UserID:    participantID,
		Type:      models.NotificationJoinApproved,
		Title:     "Join request approved",
		Message:   "You are going to " + updated.Destination + "!",
		Data:      map[string]any{"tripId": updated.ID.String()},
		ActionURL: "/trips/" + updated.ID.String(),
	})
	return s.present(updated), nil
}

// GetAllJoinRequests lists the trips where userID is pending.
func (s *TripService) GetAllJoinRequests(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	trips, err := s.trips.FindByPendingUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}
	return s.presentAll(trips), nil
}

// explain re-reads a trip after a guarded write matched nothing.
func (s *TripService) explain(ctx context.Context, tripID uuid.UUID, why func(*models.Trip) error) error {
	latest, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if err := why(latest); err != nil {
		return err
	}
	return apperr.Conflict("The trip changed while processing the request, please retry")
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
