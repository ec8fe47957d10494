package calendar

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"massobook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const testCalendarID = "provider-calendar"

// fakeGoogle serves the subset of the Calendar API the gateway uses, plus a token endpoint.
type fakeGoogle struct {
	t          *testing.T
	server     *httptest.Server
	listCalls  atomic.Int32
	tokenCalls atomic.Int32
	mu         sync.Mutex
	inserted   *gcalendar.Event
	insertQS   string
	listStatus int
	authHeader atomic.Value
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	f := &fakeGoogle{t: t, listStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/calendars/"+testCalendarID+"/events", func(w http.ResponseWriter, r *http.Request) {
		f.authHeader.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			f.listCalls.Add(1)
			if f.listStatus != http.StatusOK {
				w.WriteHeader(f.listStatus)
				_, _ = io.WriteString(w, `{"error":{"code":403,"message":"forbidden"}}`)
				return
			}
			q := r.URL.Query()
			assert.Equal(t, "true", q.Get("singleEvents"))
			assert.Equal(t, "startTime", q.Get("orderBy"))
			assert.Equal(t, "2025-07-14T22:00:00Z", q.Get("timeMin"))
			assert.Equal(t, "2025-07-16T00:00:00Z", q.Get("timeMax"))
			if q.Get("pageToken") == "" {
				_, _ = io.WriteString(w, `{"nextPageToken":"p2","items":[
					{"id":"timed","status":"confirmed","start":{"dateTime":"2025-07-15T12:00:00+02:00"},"end":{"dateTime":"2025-07-15T13:00:00+02:00"}},
					{"id":"gone","status":"cancelled","start":{"dateTime":"2025-07-15T09:00:00+02:00"},"end":{"dateTime":"2025-07-15T10:00:00+02:00"}}
				]}`)
				return
			}
			_, _ = io.WriteString(w, `{"items":[
				{"id":"holiday","status":"confirmed","start":{"date":"2025-07-15"},"end":{"date":"2025-07-16"}}
			]}`)
		case http.MethodPost:
			var ev gcalendar.Event
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
			f.mu.Lock()
			f.insertQS = r.URL.RawQuery
			f.inserted = &ev
			f.mu.Unlock()
			_, _ = io.WriteString(w, `{"id":"evt-1","htmlLink":"https://calendar.google.com/event?eid=evt-1","status":"tentative"}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGoogle) factory() ServiceFactory {
	return func(ctx context.Context, scope string) (*gcalendar.Service, error) {
		return gcalendar.NewService(ctx,
			option.WithHTTPClient(f.server.Client()),
			option.WithEndpoint(f.server.URL+"/"))
	}
}

func testCredentials(t *testing.T, tokenURL string) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	raw, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": "booking@project.iam.gserviceaccount.com",
		"private_key":  string(keyPEM),
		"token_uri":    tokenURL,
	})
	require.NoError(t, err)
	return string(raw)
}

func TestBusyIntervals_NormalizesAndPaginates(t *testing.T) {
	f := newFakeGoogle(t)
	gw := NewGoogleGatewayWithFactory(testCalendarID, "Europe/Rome", f.factory(), nil)

	from := time.Date(2025, 7, 14, 22, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
	busy, err := gw.BusyIntervals(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, busy, 2)
	assert.EqualValues(t, 2, f.listCalls.Load())

	assert.Equal(t, "timed", busy[0].Source)
	assert.Equal(t, time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC), busy[0].Start)
	assert.Equal(t, time.Date(2025, 7, 15, 11, 0, 0, 0, time.UTC), busy[0].End)
	assert.False(t, busy[0].AllDay)

	assert.Equal(t, "holiday", busy[1].Source)
	assert.True(t, busy[1].AllDay)
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), busy[1].Start)
	assert.Equal(t, time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC), busy[1].End)
}

func TestBusyIntervals_APIErrorIsUpstream(t *testing.T) {
	f := newFakeGoogle(t)
	f.listStatus = http.StatusForbidden
	gw := NewGoogleGatewayWithFactory(testCalendarID, "Europe/Rome", f.factory(), nil)

	_, err := gw.BusyIntervals(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, utils.KindUpstream, utils.KindOf(err))
}

func TestBusyIntervals_MissingCalendarID(t *testing.T) {
	f := newFakeGoogle(t)
	gw := NewGoogleGatewayWithFactory("", "Europe/Rome", f.factory(), nil)

	_, err := gw.BusyIntervals(context.Background(), time.Now(), time.Now().Add(time.Hour))
	assert.Equal(t, utils.KindConfiguration, utils.KindOf(err))
	assert.EqualValues(t, 0, f.listCalls.Load())
}

func TestServiceAccountFactory_MissingCredentials(t *testing.T) {
	gw := NewGoogleGateway(GatewayConfig{CalendarID: testCalendarID, TimeZone: "Europe/Rome"})

	_, err := gw.BusyIntervals(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, utils.KindConfiguration, utils.KindOf(err))
	assert.NotContains(t, err.Error(), "PRIVATE KEY")
}

func TestServiceAccountFactory_MalformedCredentials(t *testing.T) {
	gw := NewGoogleGateway(GatewayConfig{
		Credentials: `{"client_email":"x@y.z"}`,
		CalendarID:  testCalendarID,
	})

	_, err := gw.CreateEvent(context.Background(), EventDraft{})
	assert.Equal(t, utils.KindConfiguration, utils.KindOf(err))
}

func TestServiceAccountFactory_AuthorizesWithJWT(t *testing.T) {
	f := newFakeGoogle(t)
	gw := NewGoogleGateway(GatewayConfig{
		Credentials: testCredentials(t, f.server.URL+"/token"),
		CalendarID:  testCalendarID,
		TimeZone:    "Europe/Rome",
		Endpoint:    f.server.URL + "/",
	})

	from := time.Date(2025, 7, 14, 22, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
	_, err := gw.BusyIntervals(context.Background(), from, to)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.tokenCalls.Load())
	assert.Equal(t, "Bearer test-token", f.authHeader.Load())
}

func TestCreateEvent_SendsTentativeEvent(t *testing.T) {
	f := newFakeGoogle(t)
	gw := NewGoogleGatewayWithFactory(testCalendarID, "Europe/Rome", f.factory(), nil)

	start := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	created, err := gw.CreateEvent(context.Background(), EventDraft{
		Summary:     "DA CONFERMARE: prestazione Mario Rossi",
		Description: "Motivo visita: schiena",
		Start:       start,
		End:         start.Add(time.Hour),
		Status:      StatusTentative,
		Private:     map[string]string{"bookingId": "b-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.ID)
	assert.Equal(t, "https://calendar.google.com/event?eid=evt-1", created.HTMLLink)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotNil(t, f.inserted)
	assert.Equal(t, "tentative", f.inserted.Status)
	assert.Equal(t, "2025-07-15T10:00:00Z", f.inserted.Start.DateTime)
	assert.Equal(t, "2025-07-15T11:00:00Z", f.inserted.End.DateTime)
	assert.Equal(t, "Europe/Rome", f.inserted.Start.TimeZone)
	assert.Equal(t, "b-1", f.inserted.ExtendedProperties.Private["bookingId"])
	assert.Contains(t, f.insertQS, "sendUpdates=all")
}

func TestToBusyInterval(t *testing.T) {
	tests := []struct {
		name    string
		event   *gcalendar.Event
		ok      bool
		wantErr bool
		start   time.Time
		end     time.Time
	}{
		{
			name:  "all-day without end",
			event: &gcalendar.Event{Id: "a", Start: &gcalendar.EventDateTime{Date: "2025-12-25"}},
			ok:    true,
			start: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "multi-day",
			event: &gcalendar.Event{Id: "b",
				Start: &gcalendar.EventDateTime{Date: "2025-08-11"},
				End:   &gcalendar.EventDateTime{Date: "2025-08-16"}},
			ok:    true,
			start: time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cancelled",
			event: &gcalendar.Event{Id: "c", Status: "cancelled", Start: &gcalendar.EventDateTime{Date: "2025-08-11"}},
		},
		{
			name:    "unreadable start",
			event:   &gcalendar.Event{Id: "d", Start: &gcalendar.EventDateTime{DateTime: "tomorrow"}},
			wantErr: true,
		},
		{
			name:    "no start",
			event:   &gcalendar.Event{Id: "e"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := toBusyInterval(tt.event)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.start, got.Start)
				assert.Equal(t, tt.end, got.End)
			}
		})
	}
}
