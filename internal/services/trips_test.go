package services

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository/memstore"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type tripFixture struct {
	svc    *TripService
	trips  *memstore.Trips
	users  *memstore.Users
	assets *memstore.Assets
	notes  *memstore.Notifications

	owner, alice, bob, blocked, admin models.User
}

func newUser(name string, role models.Role, status models.UserStatus, verified bool) models.User {
	return models.User{
		ID:         uuid.New(),
		Name:       name,
		Email:      name + "@travbud.test",
		Role:       role,
		Status:     status,
		IsVerified: verified,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
}

func newTripFixture(t *testing.T, opts TripOptions) *tripFixture {
	t.Helper()
	f := &tripFixture{
		owner:   newUser("owner", models.RoleUser, models.UserActive, false),
		alice:   newUser("alice", models.RoleUser, models.UserActive, false),
		bob:     newUser("bob", models.RoleGuide, models.UserActive, true),
		blocked: newUser("mallory", models.RoleUser, models.UserBlocked, true),
		admin:   newUser("root", models.RoleAdmin, models.UserActive, true),
	}
	f.trips = memstore.NewTrips()
	f.users = memstore.NewUsers(f.owner, f.alice, f.bob, f.blocked, f.admin)
	f.assets = &memstore.Assets{}
	f.notes = memstore.NewNotifications()

	notifier := NewNotificationService(f.notes)
	notifier.now = func() time.Time { return testNow }
	f.svc = NewTripService(f.trips, f.users, f.assets, notifier, opts)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func defaultOpts() TripOptions {
	return TripOptions{EnforceCapacity: true, UnverifiedQuota: 5}
}

func tripInput(maxGroup int) TripInput {
	return TripInput{
		Destination:  "Lombok",
		StartDate:    testNow.Add(7 * 24 * time.Hour),
		EndDate:      testNow.Add(14 * 24 * time.Hour),
		Budget:       1200,
		TravelTypes:  []string{"beach", "adventure"},
		Description:  "Surf and volcano hike",
		Activities:   []string{"surfing", "rinjani trek"},
		MaxGroupSize: maxGroup,
	}
}

func caller(u models.User) models.Caller {
	return models.Caller{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (f *tripFixture) createTrip(t *testing.T, maxGroup int) *models.Trip {
	t.Helper()
	trip, err := f.svc.CreateTrip(context.Background(), f.owner.ID, tripInput(maxGroup), []string{"https://assets.test/cover.jpg"})
	require.NoError(t, err)
	return trip
}

func assertDisjoint(t *testing.T, trip *models.Trip) {
	t.Helper()
	for _, id := range trip.Participants.Pending {
		assert.NotContains(t, trip.Participants.Approved, id, "user %s is both pending and approved", id)
	}
	assert.NotContains(t, trip.Participants.Pending, trip.OwnerID)
	assert.NotContains(t, trip.Participants.Approved, trip.OwnerID)
}

func TestCreateTripRoundTrip(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	in := tripInput(4)

	created, err := f.svc.CreateTrip(ctx, f.owner.ID, in, []string{"https://assets.test/a.jpg"})
	require.NoError(t, err)

	got, err := f.svc.GetTrip(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, got.OwnerID)
	assert.Equal(t, in.Destination, got.Destination)
	assert.True(t, in.StartDate.Equal(got.StartDate))
	assert.True(t, in.EndDate.Equal(got.EndDate))
	assert.Equal(t, in.Budget, got.Budget)
	assert.Equal(t, in.TravelTypes, got.TravelTypes)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.Activities, got.Activities)
	assert.Equal(t, in.MaxGroupSize, got.MaxGroupSize)
	assert.Equal(t, []string{"https://assets.test/a.jpg"}, got.Photos)
	assert.Empty(t, got.Participants.Pending)
	assert.Empty(t, got.Participants.Approved)
	assert.Equal(t, models.TripOpen, got.Status)
	assert.Empty(t, f.assets.DeletedURLs())
}

func TestCreateTripBlockedOwnerWritesNothing(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	photos := []string{"https://assets.test/1.jpg", "https://assets.test/2.jpg"}

	_, err := f.svc.CreateTrip(context.Background(), f.blocked.ID, tripInput(3), photos)

	require.ErrorIs(t, err, apperr.ErrAccountBlocked)
	assert.Equal(t, apperr.KindDomainRule, apperr.KindOf(err))
	assert.Zero(t, f.trips.Writes())
	assert.ElementsMatch(t, photos, f.assets.DeletedURLs())
}

func TestCreateTripUnverifiedQuota(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.trips.Put(models.Trip{ID: uuid.New(), OwnerID: f.owner.ID, EndDate: testNow.Add(time.Hour), MaxGroupSize: 1})
	}

	_, err := f.svc.CreateTrip(ctx, f.owner.ID, tripInput(3), []string{"https://assets.test/x.jpg"})
	require.ErrorIs(t, err, apperr.ErrQuotaExceeded)
	assert.Zero(t, f.trips.Writes())
	assert.Equal(t, []string{"https://assets.test/x.jpg"}, f.assets.DeletedURLs())

	for i := 0; i < 5; i++ {
		f.trips.Put(models.Trip{ID: uuid.New(), OwnerID: f.bob.ID, EndDate: testNow.Add(time.Hour), MaxGroupSize: 1})
	}
	_, err = f.svc.CreateTrip(ctx, f.bob.ID, tripInput(3), nil)
	assert.NoError(t, err, "verified owners are not limited")
}

func TestCreateTripRejectsInvertedDates(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	in := tripInput(3)
	in.StartDate, in.EndDate = in.EndDate, in.StartDate

	_, err := f.svc.CreateTrip(context.Background(), f.owner.ID, in, []string{"https://assets.test/p.jpg"})

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Zero(t, f.trips.Writes())
	assert.Len(t, f.assets.DeletedURLs(), 1)
}

func TestCreateTripUnknownOwner(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	_, err := f.svc.CreateTrip(context.Background(), uuid.New(), tripInput(3), nil)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateTripByStrangerIsForbidden(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)
	before, err := f.trips.FindByID(ctx, trip.ID)
	require.NoError(t, err)
	writes := f.trips.Writes()

	dest := "Bali"
	_, err = f.svc.UpdateTrip(ctx, trip.ID, models.TripPatch{Destination: &dest, Photos: []string{"https://assets.test/new.jpg"}}, caller(f.alice))

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	after, err := f.trips.FindByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, writes, f.trips.Writes())
	assert.Equal(t, []string{"https://assets.test/new.jpg"}, f.assets.DeletedURLs())
}

func TestUpdateTripReplacesPhotos(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)

	budget := 900.0
	updated, err := f.svc.UpdateTrip(ctx, trip.ID, models.TripPatch{
		Budget: &budget,
		Photos: []string{"https://assets.test/new-1.jpg", "https://assets.test/new-2.jpg"},
	}, caller(f.admin))

	require.NoError(t, err)
	assert.Equal(t, 900.0, updated.Budget)
	assert.Equal(t, []string{"https://assets.test/new-1.jpg", "https://assets.test/new-2.jpg"}, updated.Photos)
	assert.Equal(t, []string{"https://assets.test/cover.jpg"}, f.assets.DeletedURLs())
}

func TestUpdateTripValidation(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)
	_, err := f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID)
	require.NoError(t, err)
	_, err = f.svc.RequestToJoin(ctx, trip.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.alice.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.bob.ID)
	require.NoError(t, err)

	one := 1
	_, err = f.svc.UpdateTrip(ctx, trip.ID, models.TripPatch{MaxGroupSize: &one}, caller(f.owner))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	early := trip.StartDate.Add(-48 * time.Hour)
	_, err = f.svc.UpdateTrip(ctx, trip.ID, models.TripPatch{EndDate: &early}, caller(f.owner))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	two := 2
	updated, err := f.svc.UpdateTrip(ctx, trip.ID, models.TripPatch{MaxGroupSize: &two}, caller(f.owner))
	require.NoError(t, err)
	assert.Equal(t, models.TripFull, updated.Status)

	_, err = f.svc.UpdateTrip(ctx, uuid.New(), models.TripPatch{MaxGroupSize: &two}, caller(f.owner))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteTrip(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)

	_, err := f.svc.DeleteTrip(ctx, trip.ID, caller(f.bob))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Empty(t, f.assets.DeletedURLs())

	_, err = f.svc.DeleteTrip(ctx, trip.ID, caller(f.owner))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://assets.test/cover.jpg"}, f.assets.DeletedURLs())

	_, err = f.svc.GetTrip(ctx, trip.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSingleSeatScenarioWithCapacityGuard(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 1)

	_, err := f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID)
	require.NoError(t, err)
	approved, err := f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TripFull, approved.Status)

	pending, err := f.svc.RequestToJoin(ctx, trip.ID, f.bob.ID)
	require.NoError(t, err, "capacity is not checked at request time")
	assert.Contains(t, pending.Participants.Pending, f.bob.ID)
	assert.Equal(t, models.TripFull, pending.Status)

	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.bob.ID)
	require.ErrorIs(t, err, apperr.ErrCapacityReached)

	stored, err := f.svc.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(stored.Participants.Approved), stored.MaxGroupSize)
	assert.Equal(t, []uuid.UUID{f.bob.ID}, stored.Participants.Pending)
	assertDisjoint(t, stored)
}

// Without the guard approvals can exceed maxGroupSize.
func TestSingleSeatScenarioWithoutCapacityGuard(t *testing.T) {
	f := newTripFixture(t, TripOptions{EnforceCapacity: false, UnverifiedQuota: 5})
	ctx := context.Background()
	trip := f.createTrip(t, 1)

	for _, u := range []models.User{f.alice, f.bob} {
		_, err := f.svc.RequestToJoin(ctx, trip.ID, u.ID)
		require.NoError(t, err)
	}
	_, err := f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.alice.ID)
	require.NoError(t, err)
	over, err := f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.bob.ID)
	require.NoError(t, err)

	assert.Len(t, over.Participants.Approved, 2)
	assert.Greater(t, len(over.Participants.Approved), over.MaxGroupSize)
	assert.Equal(t, models.TripFull, over.Status)
	assertDisjoint(t, over)
}

func TestCancelJoinRequestTwice(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)
	_, err := f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID)
	require.NoError(t, err)

	updated, err := f.svc.CancelJoinRequest(ctx, trip.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Participants.Pending)

	_, err = f.svc.CancelJoinRequest(ctx, trip.ID, f.alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "No pending request")
}

func TestRequestToJoinRejections(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	open := f.createTrip(t, 3)

	cancelled := models.Trip{ID: uuid.New(), OwnerID: f.owner.ID, Status: models.TripCancelled,
		StartDate: testNow.Add(time.Hour), EndDate: testNow.Add(48 * time.Hour), MaxGroupSize: 3}
	ended := models.Trip{ID: uuid.New(), OwnerID: f.owner.ID, Status: models.TripOpen,
		StartDate: testNow.Add(-72 * time.Hour), EndDate: testNow.Add(-time.Hour), MaxGroupSize: 3}
	f.trips.Put(cancelled)
	f.trips.Put(ended)

	_, err := f.svc.RequestToJoin(ctx, open.ID, f.alice.ID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		tripID uuid.UUID
		userID uuid.UUID
		want   error
		kind   apperr.Kind
	}{
		{name: "already pending", tripID: open.ID, userID: f.alice.ID, kind: apperr.KindConflict},
		{name: "blocked user", tripID: open.ID, userID: f.blocked.ID, want: apperr.ErrAccountBlocked, kind: apperr.KindDomainRule},
		{name: "owner", tripID: open.ID, userID: f.owner.ID, want: apperr.ErrOwnerCannotJoin, kind: apperr.KindDomainRule},
		{name: "cancelled trip", tripID: cancelled.ID, userID: f.bob.ID, want: apperr.ErrTripClosed, kind: apperr.KindDomainRule},
		{name: "completed trip", tripID: ended.ID, userID: f.bob.ID, want: apperr.ErrTripClosed, kind: apperr.KindDomainRule},
		{name: "unknown trip", tripID: uuid.New(), userID: f.bob.ID, kind: apperr.KindNotFound},
		{name: "unknown user", tripID: open.ID, userID: uuid.New(), kind: apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RequestToJoin(ctx, tt.tripID, tt.userID)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestRequestAfterApprovalIsConflict(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)
	_, err := f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.alice.ID)
	require.NoError(t, err)

	_, err = f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestApproveJoinRequestAuthorization(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)
	_, err := f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID)
	require.NoError(t, err)

	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.bob), f.alice.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.bob.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	updated, err := f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.admin), f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.alice.ID}, updated.Participants.Approved)
	assert.Empty(t, updated.Participants.Pending)

	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.alice.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestPendingAndApprovedStayDisjoint(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 2)

	extra := make([]models.User, 4)
	for i := range extra {
		extra[i] = newUser("traveller"+string(rune('a'+i)), models.RoleUser, models.UserActive, false)
		require.NoError(t, f.users.Create(ctx, &extra[i]))
	}
	candidates := append([]models.User{f.alice, f.bob}, extra...)

	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 300; i++ {
		u := candidates[rng.IntN(len(candidates))]
		switch rng.IntN(3) {
		case 0:
			_, _ = f.svc.RequestToJoin(ctx, trip.ID, u.ID)
		case 1:
			_, _ = f.svc.CancelJoinRequest(ctx, trip.ID, u.ID)
		case 2:
			_, _ = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), u.ID)
		}
		current, err := f.trips.FindByID(ctx, trip.ID)
		require.NoError(t, err)
		assertDisjoint(t, current)
		assert.LessOrEqual(t, len(current.Participants.Approved), current.MaxGroupSize)
	}
}

func TestConcurrentJoinRequestsAdmitOnce(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	stored, err := f.trips.FindByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.alice.ID}, stored.Participants.Pending)
}

func TestStatusDerivationOnRead(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	full := []uuid.UUID{f.alice.ID, f.bob.ID}

	ended := models.Trip{ID: uuid.New(), OwnerID: f.owner.ID, Status: models.TripFull, MaxGroupSize: 2,
		EndDate: testNow.Add(-time.Minute), Participants: models.Participants{Approved: full}}
	cancelled := models.Trip{ID: uuid.New(), OwnerID: f.owner.ID, Status: models.TripCancelled, MaxGroupSize: 2,
		EndDate: testNow.Add(-time.Minute), Participants: models.Participants{Approved: full}}
	f.trips.Put(ended)
	f.trips.Put(cancelled)

	got, err := f.svc.GetTrip(ctx, ended.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TripCompleted, got.Status)

	got, err = f.svc.GetTrip(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TripCancelled, got.Status)
}

func TestCancelTrip(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)
	_, err := f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.alice.ID)
	require.NoError(t, err)
	_, err = f.svc.RequestToJoin(ctx, trip.ID, f.bob.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelTrip(ctx, trip.ID, caller(f.alice))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	cancelled, err := f.svc.CancelTrip(ctx, trip.ID, caller(f.owner))
	require.NoError(t, err)
	assert.Equal(t, models.TripCancelled, cancelled.Status)

	again, err := f.svc.CancelTrip(ctx, trip.ID, caller(f.admin))
	require.NoError(t, err)
	assert.Equal(t, models.TripCancelled, again.Status)

	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.bob.ID)
	assert.ErrorIs(t, err, apperr.ErrTripClosed)

	// leaving a cancelled trip's queue is still allowed and keeps it cancelled
	left, err := f.svc.CancelJoinRequest(ctx, trip.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TripCancelled, left.Status)

	var cancelNotes []uuid.UUID
	for _, n := range f.notes.All() {
		if n.Type == models.NotificationTripCancelled {
			cancelNotes = append(cancelNotes, n.UserID)
		}
	}
	assert.ElementsMatch(t, []uuid.UUID{f.alice.ID, f.bob.ID}, cancelNotes)
}

func TestCancelCompletedTripIsRejected(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ended := models.Trip{ID: uuid.New(), OwnerID: f.owner.ID, Status: models.TripOpen, MaxGroupSize: 2,
		EndDate: testNow.Add(-time.Hour)}
	f.trips.Put(ended)

	_, err := f.svc.CancelTrip(context.Background(), ended.ID, caller(f.owner))
	assert.ErrorIs(t, err, apperr.ErrTripClosed)
}

func TestGetAllJoinRequests(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	first := f.createTrip(t, 3)
	second := f.createTrip(t, 3)
	f.createTrip(t, 3)

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		_, err := f.svc.RequestToJoin(ctx, id, f.alice.ID)
		require.NoError(t, err)
	}
	_, err := f.svc.ApproveJoinRequest(ctx, second.ID, caller(f.owner), f.alice.ID)
	require.NoError(t, err)

	trips, err := f.svc.GetAllJoinRequests(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, first.ID, trips[0].ID)
}

func TestParticipationNotifications(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)

	_, err := f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.alice.ID)
	require.NoError(t, err)

	notes := f.notes.All()
	require.Len(t, notes, 2)
	assert.Equal(t, f.owner.ID, notes[0].UserID)
	assert.Equal(t, models.NotificationJoinRequested, notes[0].Type)
	assert.Equal(t, f.alice.ID, notes[1].UserID)
	assert.Equal(t, models.NotificationJoinApproved, notes[1].Type)
	assert.Equal(t, trip.ID.String(), notes[1].Data["tripId"])
}

func TestListTripsBeyondLastPage(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	_, err := f.svc.CreateTrip(ctx, f.bob.ID, tripInput(3), nil)
	require.NoError(t, err)

	page, err := f.svc.ListTrips(ctx, models.TripFilter{Page: models.Page{Page: math.MaxInt64 / 2}})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Pagination.Total)
	assert.Equal(t, models.MaxPage, page.Pagination.Page)
}

func TestListTripsFiltersAndPaginates(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	for i, dest := range []string{"Bali", "Bangkok", "Berlin", "Bogota"} {
		in := tripInput(3)
		in.Destination = dest
		in.Budget = float64(500 * (i + 1))
		if dest == "Berlin" {
			in.TravelTypes = []string{"city"}
		}
		_, err := f.svc.CreateTrip(ctx, f.bob.ID, in, nil)
		require.NoError(t, err)
	}

	page, err := f.svc.ListTrips(ctx, models.TripFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Items, models.DefaultTripPageLimit)
	assert.Equal(t, models.Pagination{Total: 4, Page: 1, Limit: 3, TotalPages: 2}, page.Pagination)

	minB := 1000.0
	page, err = f.svc.ListTrips(ctx, models.TripFilter{
		MinBudget:   &minB,
		TravelTypes: []string{"beach"},
		Page:        models.Page{SortBy: "budget", SortOrder: "asc", Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Bangkok", page.Items[0].Destination)
	assert.Equal(t, "Bogota", page.Items[1].Destination)

	page, err = f.svc.ListTrips(ctx, models.TripFilter{SearchTerm: "ber", Status: models.TripOpen})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Berlin", page.Items[0].Destination)
}

func TestListMyTripsResolvesParticipants(t *testing.T) {
	f := newTripFixture(t, defaultOpts())
	ctx := context.Background()
	trip := f.createTrip(t, 3)
	_, err := f.svc.CreateTrip(ctx, f.bob.ID, tripInput(2), nil)
	require.NoError(t, err)

	_, err = f.svc.RequestToJoin(ctx, trip.ID, f.alice.ID)
	require.NoError(t, err)
	_, err = f.svc.RequestToJoin(ctx, trip.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveJoinRequest(ctx, trip.ID, caller(f.owner), f.bob.ID)
	require.NoError(t, err)

	page, err := f.svc.ListMyTrips(ctx, f.owner.ID, models.TripFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	mine := page.Items[0]
	assert.Equal(t, trip.ID, mine.ID)
	assert.Equal(t, []models.UserSummary{f.alice.Summary()}, mine.PendingUsers)
	assert.Equal(t, []models.UserSummary{f.bob.Summary()}, mine.ApprovedUsers)
}

func TestReleaseAssetsSwallowsFailures(t *testing.T) {
	assets := &memstore.Assets{FailDelete: errors.New("cdn down")}
	assert.NotPanics(t, func() {
		releaseAssets(context.Background(), assets, []string{"https://assets.test/a.jpg"})
	})
	assert.Empty(t, assets.DeletedURLs())
}

func TestTripWritesClearHomeCache(t *testing.T) {
	ctx := context.Background()
	cache := memstore.NewCache()
	opts := defaultOpts()
	opts.HomeCache = cache
	f := newTripFixture(t, opts)

	stale := func() {
		t.Helper()
		require.NoError(t, cache.Set(ctx, homeCacheKey, []byte(`{}`), time.Minute))
	}
	cleared := func(step string) {
		t.Helper()
		_, ok, err := cache.Get(ctx, homeCacheKey)
		require.NoError(t, err)
		assert.False(t, ok, step)
	}

	stale()
	trip := f.createTrip(t, 3)
	cleared("create")

	stale()
	dest := "Flores"
	_, err := f.svc.UpdateTrip(ctx, trip.ID, models.TripPatch{Destination: &dest}, caller(f.owner))
	require.NoError(t, err)
	cleared("update")

	stale()
	_, err = f.svc.CancelTrip(ctx, trip.ID, caller(f.owner))
	require.NoError(t, err)
	cleared("cancel")

	stale()
	_, err = f.svc.DeleteTrip(ctx, trip.ID, caller(f.owner))
	require.NoError(t, err)
	cleared("delete")
}
