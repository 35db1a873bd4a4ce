package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic/internal/bookings/slots"
	"clinic/pkg/auth"
	apperrors "clinic/pkg/errors"
	"clinic/pkg/logger"
	"clinic/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret-32-characters"

type mockBookingService struct {
	createFunc    func(ctx context.Context, c *model.BookingCandidate, requesterID string) (*model.Booking, error)
	readFunc      func(ctx context.Context, id string) (*model.Booking, error)
	listFunc      func(ctx context.Context, f *model.BookingFilter) ([]*model.Booking, int64, error)
	availableFunc func(ctx context.Context, providerID, date string) ([]slots.TimeOfDay, error)
	cancelled     []string
	completed     []string
	removed       []string
}

func (m *mockBookingService) Create(ctx context.Context, c *model.BookingCandidate, requesterID string) (*model.Booking, error) {
	return m.createFunc(ctx, c, requesterID)
}

func (m *mockBookingService) Read(ctx context.Context, id string) (*model.Booking, error) {
	return m.readFunc(ctx, id)
}

func (m *mockBookingService) List(ctx context.Context, f *model.BookingFilter) ([]*model.Booking, int64, error) {
	if m.listFunc == nil {
		return []*model.Booking{}, 0, nil
	}
	return m.listFunc(ctx, f)
}

func (m *mockBookingService) Complete(_ context.Context, id string) (*model.Booking, error) {
	m.completed = append(m.completed, id)
	return &model.Booking{ID: id, Status: model.BookingCompleted}, nil
}

func (m *mockBookingService) Cancel(_ context.Context, id string) (*model.Booking, error) {
	m.cancelled = append(m.cancelled, id)
	return &model.Booking{ID: id, Status: model.BookingCancelled}, nil
}

func (m *mockBookingService) Remove(_ context.Context, id string) error {
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockBookingService) AvailableSlots(ctx context.Context, providerID, date string) ([]slots.TimeOfDay, error) {
	return m.availableFunc(ctx, providerID, date)
}

func (m *mockBookingService) Catalog() *slots.Catalog {
	return slots.MustCatalog("09:00", "12:00", 60)
}

type fixture struct {
	svc    *mockBookingService
	router *httprouter.Router
	user   string
	other  string
	admin  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	issuer := auth.NewTokenIssuer(testSecret, time.Hour, nil)
	token := func(u *model.User) string {
		tok, _, err := issuer.Issue(u)
		require.NoError(t, err)
		return tok
	}

	svc := &mockBookingService{}
	router := httprouter.New()
	NewBookingHandler(svc, auth.NewGuard(issuer), logger.Discard()).RegisterRoutes(router)

	return &fixture{
		svc:    svc,
		router: router,
		user:   token(&model.User{ID: "user-1", Role: model.RoleUser}),
		other:  token(&model.User{ID: "user-2", Role: model.RoleUser}),
		admin:  token(&model.User{ID: "admin-1", Role: model.RoleAdmin}),
	}
}

func (f *fixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestSlots_Public(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/slots", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got catalogResponse
	decodeData(t, w, &got)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, got.Slots)
	assert.Equal(t, 60, got.GranularityMinutes)
}

func TestAvailable(t *testing.T) {
	f := newFixture(t)
	f.svc.availableFunc = func(_ context.Context, providerID, date string) ([]slots.TimeOfDay, error) {
		if date == "bad" {
			return nil, apperrors.Validation("Invalid availability query", map[string]any{"date": "invalid"})
		}
		return []slots.TimeOfDay{10 * 60, 11 * 60}, nil
	}

	w := f.do(http.MethodGet, "/api/v1/bookings/available?provider_id=p1&date=2025-06-10", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got availabilityResponse
	decodeData(t, w, &got)
	assert.Equal(t, []string{"10:00", "11:00"}, got.Slots)
	assert.Equal(t, "p1", got.ProviderID)

	w = f.do(http.MethodGet, "/api/v1/bookings/available?provider_id=p1&date=bad", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	var gotRequester string
	f.svc.createFunc = func(_ context.Context, c *model.BookingCandidate, requesterID string) (*model.Booking, error) {
		gotRequester = requesterID
		if c.TimeSlot == "10:00" {
			return nil, apperrors.SlotConflict(c.ProviderID, c.Date, c.TimeSlot)
		}
		return &model.Booking{ID: "b1", TimeSlot: c.TimeSlot, RequesterID: requesterID, Status: model.BookingScheduled}, nil
	}

	t.Run("requires auth", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/bookings", "", `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/bookings", f.user, `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/bookings", f.user, `{"time_slot":"11:00"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "user-1", gotRequester)
		var b model.Booking
		decodeData(t, w, &b)
		assert.Equal(t, "b1", b.ID)
	})

	t.Run("slot conflict", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/bookings", f.user, `{"provider_id":"p1","date":"2025-06-10","time_slot":"10:00"}`)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperrors.CodeSlotConflict)
	})
}

func TestList_NonAdminScopedToSelf(t *testing.T) {
	f := newFixture(t)
	var got *model.BookingFilter
	f.svc.listFunc = func(_ context.Context, filter *model.BookingFilter) ([]*model.Booking, int64, error) {
		got = filter
		return []*model.Booking{}, 0, nil
	}

	w := f.do(http.MethodGet, "/api/v1/bookings?requester_id=user-2&provider_id=p1", f.user, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", got.RequesterID)
	assert.Equal(t, "p1", got.ProviderID)

	w = f.do(http.MethodGet, "/api/v1/bookings?requester_id=user-2", f.admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-2", got.RequesterID)

	w = f.do(http.MethodGet, "/api/v1/bookings?limit=abc", f.admin, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReadAndCancel_Ownership(t *testing.T) {
	f := newFixture(t)
	f.svc.readFunc = func(_ context.Context, id string) (*model.Booking, error) {
		if id == "missing" {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return &model.Booking{ID: id, RequesterID: "user-1", Status: model.BookingScheduled}, nil
	}

	tests := []struct {
		name  string
		path  string
		verb  string
		token string
		want  int
	}{
		{"owner reads", "/api/v1/bookings/id/b1", http.MethodGet, f.user, http.StatusOK},
		{"stranger reads", "/api/v1/bookings/id/b1", http.MethodGet, f.other, http.StatusForbidden},
		{"admin reads", "/api/v1/bookings/id/b1", http.MethodGet, f.admin, http.StatusOK},
		{"unknown id", "/api/v1/bookings/id/missing", http.MethodGet, f.user, http.StatusNotFound},
		{"stranger cancels", "/api/v1/bookings/id/b1/cancel", http.MethodPost, f.other, http.StatusForbidden},
		{"owner cancels", "/api/v1/bookings/id/b1/cancel", http.MethodPost, f.user, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.verb, tt.path, tt.token, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
	assert.Equal(t, []string{"b1"}, f.svc.cancelled)
}

func TestAdminOnlyRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/v1/bookings/id/b1/complete", f.user, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = f.do(http.MethodDelete, "/api/v1/bookings/id/b1", f.user, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, f.svc.completed)
	assert.Empty(t, f.svc.removed)

	w = f.do(http.MethodPost, "/api/v1/bookings/id/b1/complete", f.admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	var b model.Booking
	decodeData(t, w, &b)
	assert.Equal(t, model.BookingCompleted, b.Status)

	w = f.do(http.MethodDelete, "/api/v1/bookings/id/b1", f.admin, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"b1"}, f.svc.removed)
}
