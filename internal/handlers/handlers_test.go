package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TRAVBUD_BACK-END/internal/config"
	"TRAVBUD_BACK-END/internal/handlers"
	"TRAVBUD_BACK-END/internal/middleware"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository/memstore"
	"TRAVBUD_BACK-END/internal/routes"
	"TRAVBUD_BACK-END/internal/services"
)

const testSecret = "handlers-test-secret"

type testEnv struct {
	t      *testing.T
	router http.Handler
	trips  *memstore.Trips
	assets *memstore.Assets
	notes  *memstore.Notifications

	owner, alice, admin models.User
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "travbud-test", Env: "test", FrontendURL: "http://localhost:3000"},
		JWT: config.JWTConfig{
			AccessSecret:    testSecret,
			RefreshSecret:   testSecret + "-refresh",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{AuthPerMinute: 6000, AuthBurst: 100},
	}
}

func seedUser(t *testing.T, name string, role models.Role) models.User {
	t.Helper()
	hash, err := services.HashPassword("hunter22")
	require.NoError(t, err)
	now := time.Now().UTC()
	return models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        name + "@travbud.test",
		PasswordHash: hash,
		Role:         role,
		Status:       models.UserActive,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTestEnv(t *testing.T, deps map[string]handlers.Pinger) *testEnv {
	t.Helper()
	env := &testEnv{
		t:      t,
		owner:  seedUser(t, "owner", models.RoleUser),
		alice:  seedUser(t, "alice", models.RoleUser),
		admin:  seedUser(t, "root", models.RoleAdmin),
		trips:  memstore.NewTrips(),
		assets: &memstore.Assets{},
		notes:  memstore.NewNotifications(),
	}
	cfg := testConfig()
	users := memstore.NewUsers(env.owner, env.alice, env.admin)
	reviews := memstore.NewReviews()

	notifier := services.NewNotificationService(env.notes)
	authSvc := services.NewAuthService(users, cfg.JWT, nil)
	tripSvc := services.NewTripService(env.trips, users, env.assets, notifier, services.TripOptions{
		EnforceCapacity: true,
		UnverifiedQuota: 3,
	})
	explorerSvc := services.NewExplorerService(env.trips, reviews, memstore.NewSubscribers(), memstore.NewCache(), &memstore.Mailer{}, time.Minute)

	authHandler := handlers.NewAuthHandler(authSvc, false, cfg.App.FrontendURL)
	env.router = routes.SetupRoutes(routes.Handlers{
		Auth:          authHandler,
		Users:         handlers.NewUserHandler(services.NewUserService(users, env.trips, env.assets), env.assets, authHandler, 1<<20),
		Trips:         handlers.NewTripsHandler(tripSvc, env.assets, 1<<20),
		Reviews:       handlers.NewReviewsHandler(services.NewReviewService(reviews)),
		Explorer:      handlers.NewExplorerHandler(explorerSvc),
		Notifications: handlers.NewNotificationsHandler(notifier),
		Health:        handlers.NewHealthHandler(deps),
	}, users, cfg)
	return env
}

func (e *testEnv) token(u models.User) string {
	e.t.Helper()
	tok, err := middleware.GenerateToken(models.Caller{ID: u.ID, Email: u.Email, Role: u.Role}, testSecret, time.Hour)
	require.NoError(e.t, err)
	return tok
}

// do sends body as JSON when it is not already a reader.
func (e *testEnv) do(method, path string, as *models.User, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case *multipartBody:
		req = httptest.NewRequest(method, path, &b.buf)
		req.Header.Set("Content-Type", b.contentType)
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(*as))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field string `json:"field"`
	} `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

type multipartBody struct {
	buf         bytes.Buffer
	contentType string
}

type upload struct {
	field, name, contentType string
}

func newMultipart(t *testing.T, data any, files ...upload) *multipartBody {
	t.Helper()
	mb := &multipartBody{}
	mw := multipart.NewWriter(&mb.buf)
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("data", string(raw)))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	mb.contentType = mw.FormDataContentType()
	return mb
}

func tripPayload(destination string) map[string]any {
	return map[string]any{
		"destination":  destination,
		"startDate":    "2099-01-10",
		"endDate":      "2099-01-15",
		"budget":       500,
		"travelTypes":  []string{"Adventure"},
		"maxGroupSize": 3,
	}
}

func (e *testEnv) createTrip(as models.User, destination string) models.Trip {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/v1/trips/register", &as, tripPayload(destination))
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	var trip models.Trip
	require.NoError(e.t, json.Unmarshal(decode(e.t, rec).Data, &trip))
	return trip
}

func TestLoginSetsSessionCookies(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/v1/auth/login", nil, map[string]string{
		"email":    env.alice.Email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "User is logged in successfully!", body.Message)

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, middleware.AccessTokenCookie)
	require.Contains(t, cookies, middleware.RefreshTokenCookie)
	assert.True(t, cookies[middleware.AccessTokenCookie].HttpOnly)

	claims, err := middleware.ValidateToken(cookies[middleware.AccessTokenCookie].Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, env.alice.ID, claims.Caller().ID)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"short password", map[string]string{"email": env.alice.Email, "password": "123"}, http.StatusBadRequest},
		{"wrong password", map[string]string{"email": env.alice.Email, "password": "wrong-password"}, http.StatusForbidden},
		{"unknown email", map[string]string{"email": "nobody@travbud.test", "password": "hunter22"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/v1/auth/login", nil, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.False(t, decode(t, rec).Success)
		})
	}
}

func TestRefreshTokenRequiresCookie(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodPost, "/api/v1/auth/refresh-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterWithPhoto(t *testing.T) {
	env := newTestEnv(t, nil)

	body := newMultipart(t, map[string]any{
		"name":     "Nadia",
		"email":    "nadia@travbud.test",
		"password": "hunter22",
	}, upload{field: "file", name: "me.png", contentType: "image/png"})
	rec := env.do(http.MethodPost, "/api/v1/users/register", nil, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &user))
	assert.Equal(t, "https://assets.test/0-me.png", user.Photo)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterRejections(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("non image upload", func(t *testing.T) {
		body := newMultipart(t, map[string]any{"name": "N", "email": "n@travbud.test", "password": "hunter22"},
			upload{field: "file", name: "notes.txt", contentType: "text/plain"})
		rec := env.do(http.MethodPost, "/api/v1/users/register", nil, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, env.assets.Uploaded)
	})

	t.Run("missing data part", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/users/register", nil, newMultipart(t, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "data", decode(t, rec).Errors[0].Field)
	})

	t.Run("admin role", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/users/register", nil, map[string]any{
			"name": "Eve", "email": "eve@travbud.test", "password": "hunter22", "role": "admin",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "role", decode(t, rec).Errors[0].Field)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/users/register", nil, map[string]any{
			"name": "Alice", "email": env.alice.Email, "password": "hunter22",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGuardedRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/users/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/users/me", &env.alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/v1/users/admin/all-users", &env.alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/users/admin/all-users", &env.admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// admins manage trips but do not publish them
	rec = env.do(http.MethodPost, "/api/v1/trips/register", &env.admin, tripPayload("Sylhet"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateTripValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	bad := tripPayload("Bandarban")
	bad["startDate"] = "10/01/2099"
	rec := env.do(http.MethodPost, "/api/v1/trips/register", &env.owner, bad)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "startDate", decode(t, rec).Errors[0].Field)

	reversed := tripPayload("Bandarban")
	reversed["endDate"] = "2099-01-01"
	rec = env.do(http.MethodPost, "/api/v1/trips/register", &env.owner, reversed)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	unknown := tripPayload("Bandarban")
	unknown["photos"] = []string{"https://elsewhere.test/x.jpg"}
	rec = env.do(http.MethodPost, "/api/v1/trips/register", &env.owner, unknown)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "photos", decode(t, rec).Errors[0].Field)
}

func TestCreateTripWithPhotos(t *testing.T) {
	env := newTestEnv(t, nil)

	body := newMultipart(t, tripPayload("Cox's Bazar"),
		upload{field: "photos", name: "a.jpg", contentType: "image/jpeg"},
		upload{field: "photos", name: "b.jpg", contentType: "image/jpeg"})
	rec := env.do(http.MethodPost, "/api/v1/trips/register", &env.owner, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var trip models.Trip
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &trip))
	assert.Equal(t, []string{"https://assets.test/0-a.jpg", "https://assets.test/1-b.jpg"}, trip.Photos)
	assert.Equal(t, env.owner.ID, trip.OwnerID)
	assert.Equal(t, models.TripOpen, trip.Status)
}

func TestCreateTripTooManyPhotos(t *testing.T) {
	env := newTestEnv(t, nil)

	files := make([]upload, 11)
	for i := range files {
		files[i] = upload{field: "photos", name: fmt.Sprintf("%d.jpg", i), contentType: "image/jpeg"}
	}
	rec := env.do(http.MethodPost, "/api/v1/trips/register", &env.owner, newMultipart(t, tripPayload("Sajek"), files...))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.assets.Uploaded)
}

func TestCreateTripUploadFailureReleasesPhotos(t *testing.T) {
	env := newTestEnv(t, nil)

	body := newMultipart(t, tripPayload("Sajek"),
		upload{field: "photos", name: "a.jpg", contentType: "image/jpeg"},
		upload{field: "photos", name: "notes.txt", contentType: "text/plain"})
	rec := env.do(http.MethodPost, "/api/v1/trips/register", &env.owner, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"https://assets.test/0-a.jpg"}, env.assets.DeletedURLs())
}

func TestParticipationFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	trip := env.createTrip(env.owner, "Sundarbans")

	rec := env.do(http.MethodPost, "/api/v1/trips/request/"+trip.ID.String(), &env.owner, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "owners cannot join their own trip")

	rec = env.do(http.MethodPost, "/api/v1/trips/request/"+trip.ID.String(), &env.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/v1/trips/request/"+trip.ID.String(), &env.alice, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/trips/all-my-join-requests", &env.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []models.Trip
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, trip.ID, pending[0].ID)

	approve := map[string]string{"tripId": trip.ID.String(), "participantId": env.alice.ID.String()}
	rec = env.do(http.MethodPost, "/api/v1/trips/approve", &env.alice, approve)
	assert.Equal(t, http.StatusForbidden, rec.Code, "only the owner approves")

	rec = env.do(http.MethodPost, "/api/v1/trips/approve", &env.owner, approve)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var approved models.Trip
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &approved))
	assert.Equal(t, []uuid.UUID{env.alice.ID}, approved.Participants.Approved)
	assert.Empty(t, approved.Participants.Pending)

	rec = env.do(http.MethodGet, "/api/v1/notifications?unread_only=true", &env.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page struct {
		Items       []models.Notification `json:"items"`
		UnreadCount int                   `json:"unreadCount"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.NotificationJoinRequested, page.Items[0].Type)

	rec = env.do(http.MethodPatch, "/api/v1/notifications/"+page.Items[0].ID.String()+"/read", &env.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPatch, "/api/v1/notifications/read-all", &env.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var marked struct {
		Updated int64 `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &marked))
	assert.EqualValues(t, 1, marked.Updated)
}

func TestUpdateAndDeleteTripOwnership(t *testing.T) {
	env := newTestEnv(t, nil)
	trip := env.createTrip(env.owner, "Rangamati")
	path := "/api/v1/trips/update/" + trip.ID.String()

	rec := env.do(http.MethodPatch, path, &env.alice, map[string]any{"budget": 10})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPatch, path, &env.owner, map[string]any{"photos": []string{"https://elsewhere.test/x.jpg"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPatch, path, &env.owner, map[string]any{"budget": 750, "maxGroupSize": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Trip
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &updated))
	assert.Equal(t, 750.0, updated.Budget)
	assert.Equal(t, 5, updated.MaxGroupSize)

	rec = env.do(http.MethodDelete, "/api/v1/trips/admin/"+trip.ID.String(), &env.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/v1/trips/"+trip.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTripsFilters(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createTrip(env.owner, "Sylhet")
	env.createTrip(env.owner, "Bandarban")

	rec := env.do(http.MethodGet, "/api/v1/trips?searchTerm=sylh&limit=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page services.Paged[models.Trip]
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Sylhet", page.Items[0].Destination)

	rec = env.do(http.MethodGet, "/api/v1/trips?page=4611686018427387903", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	assert.Empty(t, page.Items)

	rec = env.do(http.MethodGet, "/api/v1/trips?status=Sleeping", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/trips?minBudget=cheap", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebReviews(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/v1/website-reviews", nil, map[string]any{"rating": 5, "comment": "Found great buddies"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/website-reviews", &env.alice, map[string]any{"rating": 6, "comment": "Found great buddies"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/website-reviews", &env.alice, map[string]any{"rating": 5, "comment": "Found great buddies"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var review models.WebReview
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &review))

	rec = env.do(http.MethodPatch, "/api/v1/website-reviews/"+review.ID.String(), &env.owner, map[string]any{"rating": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/website-reviews", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []models.WebReview
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &reviews))
	assert.Len(t, reviews, 1)

	rec = env.do(http.MethodDelete, "/api/v1/website-reviews/"+review.ID.String(), &env.admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestExplorerSubscribe(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/v1/explorer/subscribe", nil, map[string]string{"email": "Fan@Travbud.test"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/v1/explorer/subscribe", nil, map[string]string{"email": "fan@travbud.test"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/explorer/subscribers", &env.alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodDelete, "/api/v1/explorer/subscribe", nil, map[string]string{"email": "fan@travbud.test"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/v1/explorer/home", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, map[string]handlers.Pinger{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	rec := env.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/health/ready", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var health struct {
		Status  string            `json:"status"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "ok", health.Details["postgres"])
	assert.Equal(t, "connection refused", health.Details["redis"])
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/v1/nowhere", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No route found", decode(t, rec).Message)
}
