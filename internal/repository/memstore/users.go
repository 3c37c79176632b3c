package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository"
)

type Users struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func NewUsers(seed ...models.User) *Users {
	s := &Users{users: map[uuid.UUID]*models.User{}}
	for i := range seed {
		u := seed[i]
		s.users[u.ID] = &u
	}
	return s
}

func cloneUser(u *models.User) models.User {
	c := *u
	c.TravelInterests = slices.Clone(u.TravelInterests)
	c.VisitedCountries = slices.Clone(u.VisitedCountries)
	return c
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return &repository.DuplicateError{Field: "email"}
		}
		if u.ContactNumber != nil && existing.ContactNumber != nil && *existing.ContactNumber == *u.ContactNumber {
			return &repository.DuplicateError{Field: "contactNumber"}
		}
	}
	c := cloneUser(u)
	s.users[u.ID] = &c
	return nil
}

func (s *Users) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneUser(u)
	return &c, nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Users) FindSummaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[uuid.UUID]models.UserSummary{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (s *Users) FindMany(_ context.Context, f models.UserFilter) ([]models.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*models.User
	for _, u := range s.users {
		if f.SearchTerm != "" {
			q := strings.ToLower(f.SearchTerm)
			if !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
				continue
			}
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.IsVerified != nil && u.IsVerified != *f.IsVerified {
			continue
		}
		all = append(all, u)
	}
	slices.SortFunc(all, func(a, b *models.User) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if f.SortOrder != "asc" {
			c = -c
		}
		return c
	})

	out := []models.User{}
	for i := f.Offset(); i < len(all) && len(out) < f.Limit; i++ {
		out = append(out, cloneUser(all[i]))
	}
	return out, len(all), nil
}

func (s *Users) Update(_ context.Context, id uuid.UUID, p models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.ContactNumber != nil {
		for oid, other := range s.users {
			if oid != id && other.ContactNumber != nil && *other.ContactNumber == *p.ContactNumber {
				return nil, &repository.DuplicateError{Field: "contactNumber"}
			}
		}
	}
	setIf(&u.Name, p.Name)
	setIf(&u.PasswordHash, p.PasswordHash)
	setIf(&u.Photo, p.Photo)
	if p.ContactNumber != nil {
		v := *p.ContactNumber
		u.ContactNumber = &v
	}
	setIf(&u.Bio, p.Bio)
	if p.Age != nil {
		v := *p.Age
		u.Age = &v
	}
	setIf(&u.Gender, p.Gender)
	setIf(&u.CurrentLocation, p.CurrentLocation)
	if p.TravelInterests != nil {
		u.TravelInterests = slices.Clone(p.TravelInterests)
	}
	if p.VisitedCountries != nil {
		u.VisitedCountries = slices.Clone(p.VisitedCountries)
	}
	setIf(&u.Role, p.Role)
	setIf(&u.Status, p.Status)
	setIf(&u.IsVerified, p.IsVerified)
	u.UpdatedAt = time.Now().UTC()
	c := cloneUser(u)
	return &c, nil
}

func (s *Users) Delete(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.users, id)
	return u, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
