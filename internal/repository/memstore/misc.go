package memstore

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository"
)

type Reviews struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*models.WebReview
}

func NewReviews() *Reviews {
	return &Reviews{reviews: map[uuid.UUID]*models.WebReview{}}
}

func (s *Reviews) Create(_ context.Context, rv *models.WebReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *rv
	s.reviews[rv.ID] = &c
	return nil
}

func (s *Reviews) FindByID(_ context.Context, id uuid.UUID) (*models.WebReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rv, ok := s.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *rv
	return &c, nil
}

func (s *Reviews) FindLatest(_ context.Context, limit int) ([]models.WebReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WebReview{}
	for _, rv := range s.reviews {
		out = append(out, *rv)
	}
	slices.SortFunc(out, func(a, b models.WebReview) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Reviews) Update(_ context.Context, id uuid.UUID, p models.WebReviewPatch) (*models.WebReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rv, ok := s.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	setIf(&rv.Rating, p.Rating)
	setIf(&rv.Comment, p.Comment)
	rv.UpdatedAt = time.Now().UTC()
	c := *rv
	return &c, nil
}

func (s *Reviews) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

type Notifications struct {
	mu    sync.Mutex
	items []models.Notification
}

func NewNotifications() *Notifications {
	return &Notifications{}
}

// All returns every stored notification in insertion order.
func (s *Notifications) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Notifications) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, *n)
	return nil
}

func (s *Notifications) List(_ context.Context, f models.NotificationFilter) ([]models.Notification, int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.Notification
	unread := 0
	for i := len(s.items) - 1; i >= 0; i-- {
		n := s.items[i]
		if n.UserID != f.UserID {
			continue
		}
		if !n.Read {
			unread++
		}
		if f.UnreadOnly && n.Read {
			continue
		}
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		matched = append(matched, n)
	}
	out := []models.Notification{}
	for i := f.Offset(); i < len(matched) && len(out) < f.Limit; i++ {
		out = append(out, matched[i])
	}
	return out, len(matched), unread, nil
}

func (s *Notifications) MarkRead(_ context.Context, id, userID uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			if !s.items[i].Read {
				s.items[i].Read = true
				s.items[i].ReadAt = &now
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Notifications) MarkAllRead(_ context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.items {
		if s.items[i].UserID == userID && !s.items[i].Read {
			s.items[i].Read = true
			s.items[i].ReadAt = &now
			n++
		}
	}
	return n, nil
}

type Subscribers struct {
	mu   sync.Mutex
	subs []models.Subscriber
}

func NewSubscribers() *Subscribers {
	return &Subscribers{}
}

func (s *Subscribers) Create(_ context.Context, sub *models.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.Email = strings.ToLower(sub.Email)
	for _, existing := range s.subs {
		if existing.Email == sub.Email {
			return &repository.DuplicateError{Field: "email"}
		}
	}
	sub.ID = uuid.NewString()
	s.subs = append(s.subs, *sub)
	return nil
}

func (s *Subscribers) List(_ context.Context, p models.Page) ([]models.Subscriber, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Subscriber{}
	for i := p.Offset(); i < len(s.subs) && len(out) < p.Limit; i++ {
		out = append(out, s.subs[len(s.subs)-1-i])
	}
	return out, len(s.subs), nil
}

func (s *Subscribers) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for i, sub := range s.subs {
		if sub.Email == email {
			s.subs = slices.Delete(s.subs, i, i+1)
			return nil
		}
	}
	return repository.ErrNotFound
}

// Assets records uploads and deletions. FailUpload and FailDelete inject errors.
type Assets struct {
	mu         sync.Mutex
	Uploaded   []string
	Deleted    []string
	FailUpload error
	FailDelete error
}

func (a *Assets) Upload(_ context.Context, name string, r io.Reader) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailUpload != nil {
		return "", a.FailUpload
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://assets.test/%d-%s", len(a.Uploaded), name)
	a.Uploaded = append(a.Uploaded, url)
	return url, nil
}

func (a *Assets) Delete(_ context.Context, url string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailDelete != nil {
		return a.FailDelete
	}
	a.Deleted = append(a.Deleted, url)
	return nil
}

func (a *Assets) DeletedURLs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.Deleted)
}

// Cache is a map-backed cache that ignores expiry.
type Cache struct {
	mu   sync.Mutex
	data map[string][]byte
	Hits int
}

func NewCache() *Cache {
	return &Cache{data: map[string][]byte{}}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if ok {
		c.Hits++
	}
	return v, ok, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = slices.Clone(value)
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// Mailer records welcome emails.
type Mailer struct {
	mu   sync.Mutex
	Sent []string
	Fail error
}

func (m *Mailer) SendWelcome(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.Sent = append(m.Sent, email)
	return nil
}
