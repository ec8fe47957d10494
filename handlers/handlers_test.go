package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"massobook/models"
	"massobook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
}

type stubResolver struct {
	slots []string
	err   error
	dates []string
}

func (s *stubResolver) Resolve(_ context.Context, rawDate string) ([]string, error) {
	s.dates = append(s.dates, rawDate)
	return s.slots, s.err
}

type stubBookings struct {
	resp  models.BookingResponse
	err   error
	input []models.BookingRequestInput
}

func (s *stubBookings) CreateBooking(_ context.Context, in models.BookingRequestInput) (models.BookingResponse, error) {
	s.input = append(s.input, in)
	return s.resp, s.err
}

func newRouter(resolver SlotResolver, bookings BookingCreator) *gin.Engine {
	ah := &AvailabilityHandler{Resolver: resolver}
	bh := &BookingHandler{Bookings: bookings}
	r := gin.New()
	r.POST("/slots", ah.GetAvailableSlots)
	r.GET("/slots", ah.GetAvailableSlotsQuery)
	r.POST("/bookings", bh.CreateBooking)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetAvailableSlots(t *testing.T) {
	resolver := &stubResolver{slots: []string{"08:00", "09:00"}}
	r := newRouter(resolver, nil)

	w := do(r, http.MethodPost, "/slots", `{"date":"2025-07-15"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slots":["08:00","09:00"]}`, w.Body.String())
	assert.Equal(t, []string{"2025-07-15"}, resolver.dates)
}

func TestGetAvailableSlotsEmptyListIsArray(t *testing.T) {
	r := newRouter(&stubResolver{slots: []string{}}, nil)

	w := do(r, http.MethodPost, "/slots", `{"date":"2025-07-20"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slots":[]}`, w.Body.String())
}

func TestGetAvailableSlotsQuery(t *testing.T) {
	resolver := &stubResolver{slots: []string{"10:00"}}
	r := newRouter(resolver, nil)

	w := do(r, http.MethodGet, "/slots?date=2025-07-15", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"2025-07-15"}, resolver.dates)
}

func TestGetAvailableSlotsBadRequests(t *testing.T) {
	cases := map[string]string{
		"invalid json": `{"date":`,
		"missing date": `{}`,
		"blank date":   `{"date":"  "}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resolver := &stubResolver{}
			w := do(newRouter(resolver, nil), http.MethodPost, "/slots", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, resolver.dates)

			var resp utils.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGetAvailableSlotsErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"malformed date", utils.NewValidationError("invalid date", errors.New("parse")), http.StatusBadRequest},
		{"missing credentials", utils.NewConfigurationError("calendar credentials unavailable", errors.New("secret")), http.StatusInternalServerError},
		{"calendar failure", utils.NewUpstreamError("calendar service failed", errors.New("403")), http.StatusBadGateway},
		{"calendar timeout", utils.NewUnavailableError("calendar service timed out", context.DeadlineExceeded), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(newRouter(&stubResolver{err: tc.err}, nil), http.MethodPost, "/slots", `{"date":"2025-07-15"}`)
			assert.Equal(t, tc.status, w.Code)
			assert.NotContains(t, w.Body.String(), "slots")
			assert.NotContains(t, w.Body.String(), "secret")
		})
	}
}

const bookingBody = `{
	"name": "Mario",
	"surname": "Rossi",
	"phone": "333",
	"email": "mario@example.com",
	"birthdate": "1980-03-15",
	"booking_date": "2025-07-15",
	"booking_time": "10:00",
	"message": "mal di schiena"
}`

func TestCreateBooking(t *testing.T) {
	bookings := &stubBookings{resp: models.BookingResponse{
		Success: true, Message: "ok", EventLink: "https://calendar.example/e", BookingID: "b-1",
	}}
	w := do(newRouter(nil, bookings), http.MethodPost, "/bookings", bookingBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"ok","eventLink":"https://calendar.example/e","bookingId":"b-1"}`, w.Body.String())
	require.Len(t, bookings.input, 1)
	assert.Equal(t, "Rossi", bookings.input[0].Surname)
	assert.Equal(t, "mal di schiena", bookings.input[0].Message)
}

func TestCreateBookingMissingField(t *testing.T) {
	bookings := &stubBookings{}
	body := strings.Replace(bookingBody, `"phone": "333",`, "", 1)

	w := do(newRouter(nil, bookings), http.MethodPost, "/bookings", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "phone")
	assert.Empty(t, bookings.input)
}

func TestCreateBookingInvalidJSON(t *testing.T) {
	w := do(newRouter(nil, &stubBookings{}), http.MethodPost, "/bookings", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid JSON body")
}

func TestCreateBookingErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"slot taken", utils.NewConflictError("the requested slot is no longer available"), http.StatusConflict},
		{"bad time", utils.NewValidationError("booking_time must be HH:MM", nil), http.StatusBadRequest},
		{"no credentials", utils.NewConfigurationError("calendar credentials unavailable", nil), http.StatusInternalServerError},
		{"write failed", utils.NewUpstreamError("calendar service failed", nil), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(newRouter(nil, &stubBookings{err: tc.err}), http.MethodPost, "/bookings", bookingBody)
			assert.Equal(t, tc.status, w.Code)
			assert.NotContains(t, w.Body.String(), "success")
		})
	}
}
