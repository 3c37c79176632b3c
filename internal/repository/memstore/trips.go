// Package memstore holds in-memory stores with the same guard semantics as the
// Postgres and Mongo repositories.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository"
)

type Trips struct {
	mu     sync.Mutex
	trips  map[uuid.UUID]*models.Trip
	writes int
}

func NewTrips() *Trips {
	return &Trips{trips: map[uuid.UUID]*models.Trip{}}
}

// Writes counts every mutating call, successful or not.
func (s *Trips) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Put stores t as-is, bypassing write accounting.
func (s *Trips) Put(t models.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneTrip(&t)
	s.trips[t.ID] = &c
}

func cloneTrip(t *models.Trip) models.Trip {
	c := *t
	c.TravelTypes = slices.Clone(t.TravelTypes)
	c.Activities = slices.Clone(t.Activities)
	c.Photos = slices.Clone(t.Photos)
	c.Participants.Pending = slices.Clone(t.Participants.Pending)
	c.Participants.Approved = slices.Clone(t.Participants.Approved)
	if t.Owner != nil {
		o := *t.Owner
		c.Owner = &o
	}
	return c
}

func (s *Trips) Create(_ context.Context, t *models.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if _, ok := s.trips[t.ID]; ok {
		return &repository.DuplicateError{Field: "id"}
	}
	c := cloneTrip(t)
	if c.Participants.Pending == nil {
		c.Participants.Pending = []uuid.UUID{}
	}
	if c.Participants.Approved == nil {
		c.Participants.Approved = []uuid.UUID{}
	}
	s.trips[t.ID] = &c
	return nil
}

func (s *Trips) FindByID(_ context.Context, id uuid.UUID) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneTrip(t)
	return &c, nil
}

func (s *Trips) matches(t *models.Trip, f models.TripFilter, now time.Time) bool {
	if f.SearchTerm != "" {
		q := strings.ToLower(f.SearchTerm)
		if !strings.Contains(strings.ToLower(t.Destination), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.Status != "" && t.DeriveStatus(now) != f.Status {
		return false
	}
	if f.MinBudget != nil && t.Budget < *f.MinBudget {
		return false
	}
	if f.MaxBudget != nil && t.Budget > *f.MaxBudget {
		return false
	}
	if len(f.TravelTypes) > 0 && !slices.ContainsFunc(t.TravelTypes, func(tt string) bool {
		return slices.Contains(f.TravelTypes, tt)
	}) {
		return false
	}
	if f.StartFrom != nil && t.StartDate.Before(*f.StartFrom) {
		return false
	}
	if f.EndBy != nil && t.EndDate.After(*f.EndBy) {
		return false
	}
	if f.OwnerID != nil && t.OwnerID != *f.OwnerID {
		return false
	}
	return true
}

func compareTrips(a, b *models.Trip, sortBy string) int {
	switch sortBy {
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "startDate":
		return a.StartDate.Compare(b.StartDate)
	case "endDate":
		return a.EndDate.Compare(b.EndDate)
	case "budget":
		return cmp.Compare(a.Budget, b.Budget)
	case "destination":
		return cmp.Compare(a.Destination, b.Destination)
	case "maxGroupSize":
		return cmp.Compare(a.MaxGroupSize, b.MaxGroupSize)
	case "status":
		return cmp.Compare(a.Status, b.Status)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (s *Trips) FindMany(_ context.Context, f models.TripFilter, now time.Time) ([]models.Trip, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*models.Trip
	for _, t := range s.trips {
		if s.matches(t, f, now) {
			all = append(all, t)
		}
	}
	slices.SortFunc(all, func(a, b *models.Trip) int {
		c := compareTrips(a, b, f.SortBy)
		if c == 0 {
			c = strings.Compare(a.ID.String(), b.ID.String())
		}
		if f.SortOrder != "asc" {
			c = -c
		}
		return c
	})

	out := []models.Trip{}
	for i := f.Offset(); i < len(all) && len(out) < f.Limit; i++ {
		out = append(out, cloneTrip(all[i]))
	}
	return out, len(all), nil
}

func (s *Trips) CountByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.trips {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *Trips) findBy(pred func(*models.Trip) bool) []models.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Trip{}
	for _, t := range s.trips {
		if pred(t) {
			out = append(out, cloneTrip(t))
		}
	}
	slices.SortFunc(out, func(a, b models.Trip) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (s *Trips) FindByPendingUser(_ context.Context, userID uuid.UUID) ([]models.Trip, error) {
	return s.findBy(func(t *models.Trip) bool { return t.IsPending(userID) }), nil
}

func (s *Trips) FindByApprovedUser(_ context.Context, userID uuid.UUID) ([]models.Trip, error) {
	return s.findBy(func(t *models.Trip) bool { return t.IsApproved(userID) }), nil
}

func (s *Trips) Update(_ context.Context, id uuid.UUID, p models.TripPatch, now time.Time) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	t, ok := s.trips[id]
	if !ok {
		return nil, repository.ErrNoMatch
	}
	if p.MaxGroupSize != nil && len(t.Participants.Approved) > *p.MaxGroupSize {
		return nil, repository.ErrNoMatch
	}
	merged := p.Apply(cloneTrip(t))
	merged.UpdatedAt = now
	merged.Status = merged.DeriveStatus(now)
	s.trips[id] = &merged
	c := cloneTrip(&merged)
	return &c, nil
}

func (s *Trips) Delete(_ context.Context, id uuid.UUID) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	t, ok := s.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.trips, id)
	return t, nil
}

// conditional applies mutate under the lock when guard holds.
func (s *Trips) conditional(id uuid.UUID, now time.Time, guard func(*models.Trip) bool, mutate func(*models.Trip)) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	t, ok := s.trips[id]
	if !ok || !guard(t) {
		return nil, repository.ErrNoMatch
	}
	mutate(t)
	t.Status = t.DeriveStatus(now)
	t.UpdatedAt = now
	c := cloneTrip(t)
	return &c, nil
}

func (s *Trips) AddPending(_ context.Context, tripID, userID uuid.UUID, now time.Time) (*models.Trip, error) {
	return s.conditional(tripID, now, func(t *models.Trip) bool {
		return t.OwnerID != userID && !t.IsParticipant(userID) &&
			t.Status != models.TripCancelled && !t.EndDate.Before(now)
	}, func(t *models.Trip) {
		t.Participants.Pending = append(t.Participants.Pending, userID)
	})
}

func (s *Trips) RemovePending(_ context.Context, tripID, userID uuid.UUID, now time.Time) (*models.Trip, error) {
	return s.conditional(tripID, now, func(t *models.Trip) bool {
		return t.IsPending(userID)
	}, func(t *models.Trip) {
		t.Participants.Pending = slices.DeleteFunc(t.Participants.Pending, func(id uuid.UUID) bool { return id == userID })
	})
}

func (s *Trips) Approve(_ context.Context, tripID, userID uuid.UUID, now time.Time, enforceCapacity bool) (*models.Trip, error) {
	return s.conditional(tripID, now, func(t *models.Trip) bool {
		if enforceCapacity && len(t.Participants.Approved) >= t.MaxGroupSize {
			return false
		}
		return t.IsPending(userID) && t.Status != models.TripCancelled && !t.EndDate.Before(now)
	}, func(t *models.Trip) {
		t.Participants.Pending = slices.DeleteFunc(t.Participants.Pending, func(id uuid.UUID) bool { return id == userID })
		t.Participants.Approved = append(t.Participants.Approved, userID)
	})
}

func (s *Trips) Cancel(_ context.Context, tripID uuid.UUID, now time.Time) (*models.Trip, error) {
	return s.conditional(tripID, now, func(t *models.Trip) bool {
		return t.Status != models.TripCompleted && !t.EndDate.Before(now)
	}, func(t *models.Trip) {
		t.Status = models.TripCancelled
	})
}
