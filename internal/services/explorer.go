package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository"
)

const (
	homeCacheKey      = "explorer:home"
	homeTripCount     = 4
	homeReviewCount   = 3
	defaultSubsLimit  = 20
	msgAlreadyOnList  = "This email is already subscribed"
	msgNotSubscribed  = "This email is not subscribed"
	msgSubscriberList = "Subscribers not found"
)

// HomeFeed is the landing page payload.
type HomeFeed struct {
	Trips   []models.Trip      `json:"trips"`
	Reviews []models.WebReview `json:"reviews"`
}

// ExplorerService serves the public landing page and the newsletter.
type ExplorerService struct {
	trips       TripStore
	reviews     ReviewStore
	subscribers SubscriberStore
	cache       Cache
	mailer      Mailer
	ttl         time.Duration
	now         Clock
}

func NewExplorerService(trips TripStore, reviews ReviewStore, subscribers SubscriberStore, cache Cache, mailer Mailer, ttl time.Duration) *ExplorerService {
	return &ExplorerService{
		trips:       trips,
		reviews:     reviews,
		subscribers: subscribers,
		cache:       cache,
		mailer:      mailer,
		ttl:         ttl,
		now:         systemClock,
	}
}

// Home returns the newest trips and reviews. The feed is cached for the
// configured TTL or until a trip write clears it; cache failures fall through
// to the stores. Statuses are derived again on every read.
func (s *ExplorerService) Home(ctx context.Context) (*HomeFeed, error) {
	log := logger.FromContext(ctx)
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, homeCacheKey)
		switch {
		case err != nil:
			log.Warn("Home cache read failed", zap.Error(err))
		case ok:
			var feed HomeFeed
			if err := json.Unmarshal(raw, &feed); err == nil {
				now := s.now()
				for i := range feed.Trips {
					feed.Trips[i].Status = feed.Trips[i].DeriveStatus(now)
				}
				return &feed, nil
			}
			log.Warn("Discarding malformed home cache entry")
		}
	}

	now := s.now()
	trips, _, err := s.trips.FindMany(ctx, models.TripFilter{Page: models.Page{Page: 1, Limit: homeTripCount}.Normalize(homeTripCount)}, now)
	if err != nil {
		return nil, storeErr(err, msgTripNotFound)
	}
	for i := range trips {
		trips[i].Status = trips[i].DeriveStatus(now)
	}
	reviews, err := s.reviews.FindLatest(ctx, homeReviewCount)
	if err != nil {
		return nil, storeErr(err, msgReviewNotFound)
	}
	feed := &HomeFeed{Trips: trips, Reviews: reviews}

	if s.cache != nil && s.ttl > 0 {
		if raw, err := json.Marshal(feed); err == nil {
			if err := s.cache.Set(ctx, homeCacheKey, raw, s.ttl); err != nil {
				log.Warn("Home cache write failed", zap.Error(err))
			}
		}
	}
	return feed, nil
}

// Subscribe adds email to the newsletter and sends a welcome mail. The mail is
// best effort and never fails the subscription.
func (s *ExplorerService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	sub := &models.Subscriber{Email: email, SubscribedAt: s.now()}

	err := s.subscribers.Create(ctx, sub)
	var dup *repository.DuplicateError
	if errors.As(err, &dup) {
		return nil, &apperr.Error{
			Kind:    apperr.KindConflict,
			Message: msgAlreadyOnList,
			Fields:  []apperr.FieldError{{Field: "email", Message: msgAlreadyOnList}},
			Err:     err,
		}
	}
	if err != nil {
		return nil, storeErr(err, msgSubscriberList)
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(context.WithoutCancel(ctx), email); err != nil {
			logger.FromContext(ctx).Warn("Welcome email failed", zap.String("email", email), zap.Error(err))
		}
	}
	return sub, nil
}

func (s *ExplorerService) Unsubscribe(ctx context.Context, email string) error {
	err := s.subscribers.Delete(ctx, strings.ToLower(strings.TrimSpace(email)))
	return storeErr(err, msgNotSubscribed)
}

func (s *ExplorerService) Subscribers(ctx context.Context, p models.Page) (*Paged[models.Subscriber], error) {
	p = p.Normalize(defaultSubsLimit)
	subs, total, err := s.subscribers.List(ctx, p)
	if err != nil {
		return nil, storeErr(err, msgSubscriberList)
	}
	return &Paged[models.Subscriber]{Items: subs, Pagination: models.NewPagination(p, total)}, nil
}
