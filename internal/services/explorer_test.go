package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository/memstore"
)

type explorerFixture struct {
	svc     *ExplorerService
	trips   *memstore.Trips
	reviews *memstore.Reviews
	cache   *memstore.Cache
	mailer  *memstore.Mailer
}

func newExplorerFixture() *explorerFixture {
	f := &explorerFixture{
		trips:   memstore.NewTrips(),
		reviews: memstore.NewReviews(),
		cache:   memstore.NewCache(),
		mailer:  &memstore.Mailer{},
	}
	f.svc = NewExplorerService(f.trips, f.reviews, memstore.NewSubscribers(), f.cache, f.mailer, time.Minute)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func TestHomeFeedIsCached(t *testing.T) {
	ctx := context.Background()
	f := newExplorerFixture()
	for i := 0; i < 6; i++ {
		f.trips.Put(models.Trip{ID: uuid.New(), OwnerID: uuid.New(), MaxGroupSize: 2,
			EndDate: testNow.Add(time.Hour), CreatedAt: testNow.Add(time.Duration(i) * time.Minute)})
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, f.reviews.Create(ctx, &models.WebReview{ID: uuid.New(), UserID: uuid.New(), Rating: 5,
			CreatedAt: testNow.Add(time.Duration(i) * time.Minute)}))
	}

	feed, err := f.svc.Home(ctx)
	require.NoError(t, err)
	assert.Len(t, feed.Trips, 4)
	assert.Len(t, feed.Reviews, 3)
	assert.Equal(t, 0, f.cache.Hits)

	f.trips.Put(models.Trip{ID: uuid.New(), OwnerID: uuid.New(), MaxGroupSize: 2,
		EndDate: testNow.Add(time.Hour), CreatedAt: testNow.Add(time.Hour)})
	cached, err := f.svc.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Hits)
	assert.Equal(t, feed.Trips[0].ID, cached.Trips[0].ID)

	require.NoError(t, f.cache.Delete(ctx, homeCacheKey))
	fresh, err := f.svc.Home(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, feed.Trips[0].ID, fresh.Trips[0].ID)
}

func TestHomeFeedReflectsCancelledTrip(t *testing.T) {
	ctx := context.Background()
	f := newExplorerFixture()
	owner := newUser("owner", models.RoleUser, models.UserActive, true)
	trips := NewTripService(f.trips, memstore.NewUsers(owner), &memstore.Assets{},
		NewNotificationService(memstore.NewNotifications()), TripOptions{UnverifiedQuota: 5, HomeCache: f.cache})
	trips.now = func() time.Time { return testNow }

	trip, err := trips.CreateTrip(ctx, owner.ID, tripInput(3), nil)
	require.NoError(t, err)

	feed, err := f.svc.Home(ctx)
	require.NoError(t, err)
	require.Len(t, feed.Trips, 1)
	assert.Equal(t, models.TripOpen, feed.Trips[0].Status)

	_, err = trips.CancelTrip(ctx, trip.ID, caller(owner))
	require.NoError(t, err)

	feed, err = f.svc.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.Hits)
	require.Len(t, feed.Trips, 1)
	assert.Equal(t, models.TripCancelled, feed.Trips[0].Status)
}

func TestHomeFeedCacheHitDerivesStatus(t *testing.T) {
	ctx := context.Background()
	f := newExplorerFixture()
	f.trips.Put(models.Trip{ID: uuid.New(), OwnerID: uuid.New(), MaxGroupSize: 2, Status: models.TripOpen,
		EndDate: testNow.Add(time.Hour), CreatedAt: testNow})

	feed, err := f.svc.Home(ctx)
	require.NoError(t, err)
	require.Len(t, feed.Trips, 1)
	assert.Equal(t, models.TripOpen, feed.Trips[0].Status)

	f.svc.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	cached, err := f.svc.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Hits)
	assert.Equal(t, models.TripCompleted, cached.Trips[0].Status)
}

func TestHomeFeedWithoutCache(t *testing.T) {
	svc := NewExplorerService(memstore.NewTrips(), memstore.NewReviews(), memstore.NewSubscribers(), nil, nil, 0)
	feed, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.Empty(t, feed.Trips)
	assert.Empty(t, feed.Reviews)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	f := newExplorerFixture()

	sub, err := f.svc.Subscribe(ctx, " Reader@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", sub.Email)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, []string{"reader@example.com"}, f.mailer.Sent)

	_, err = f.svc.Subscribe(ctx, "reader@example.com")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	page, err := f.svc.Subscribers(ctx, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Total)

	require.NoError(t, f.svc.Unsubscribe(ctx, "READER@example.com"))
	err = f.svc.Unsubscribe(ctx, "reader@example.com")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSubscribeSurvivesMailFailure(t *testing.T) {
	f := newExplorerFixture()
	f.mailer.Fail = errors.New("mailjet down")

	sub, err := f.svc.Subscribe(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", sub.Email)
	assert.Empty(t, f.mailer.Sent)
}
