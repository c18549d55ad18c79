// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package calendar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/sanctuary-web/sanctuary/internal/cache"
)

var testNow = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC) // Wednesday

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	configured bool
	events     []Event
	err        error
	calls      int
}

func (f *fakeSource) Configured(Credentials) bool { return f.configured }

func (f *fakeSource) Events(context.Context, Credentials, time.Time) ([]Event, error) {
	f.calls++
	return f.events, f.err
}

func (f *fakeSource) Calendars(context.Context, Credentials) ([]CalendarInfo, error) {
	return nil, ErrNotConfigured
}

func newTestFeed(src Source, c cache.Cache) *Feed {
	f := NewFeed(src, c, time.Minute, Config{CalendarID: "church@example.com"}, discardLogger())
	f.now = func() time.Time { return testNow }
	return f
}

func TestFallbackEvents(t *testing.T) {
	events := FallbackEvents(testNow, time.UTC)
	require.Len(t, events, len(weeklySchedule))

	for i, ev := range events {
		assert.True(t, ev.Start.After(testNow), "%s starts in the past", ev.ID)
		assert.True(t, ev.Start.Before(testNow.AddDate(0, 0, 7)), "%s is more than a week out", ev.ID)
		assert.True(t, ev.End.After(ev.Start))
		if i > 0 {
			assert.False(t, ev.Start.Before(events[i-1].Start), "events not sorted")
		}
	}

	// Wednesday noon: the Bible study later today comes first.
	assert.Equal(t, "fallback-wednesday-bible-study", events[0].ID)
	assert.Equal(t, time.Date(2025, 3, 5, 19, 0, 0, 0, time.UTC), events[0].Start)

	assert.Equal(t, events, FallbackEvents(testNow, time.UTC), "fallback list must be deterministic")
}

func TestNextOccurrence(t *testing.T) {
	// Exactly at the start time rolls to next week.
	at := time.Date(2025, 3, 9, 10, 30, 0, 0, time.UTC) // Sunday
	got := nextOccurrence(at, time.Sunday, 10, 30)
	assert.Equal(t, time.Date(2025, 3, 16, 10, 30, 0, 0, time.UTC), got)

	// Saturday night to Sunday morning.
	got = nextOccurrence(time.Date(2025, 3, 8, 23, 0, 0, 0, time.UTC), time.Sunday, 9, 15)
	assert.Equal(t, time.Date(2025, 3, 9, 9, 15, 0, 0, time.UTC), got)
}

func TestNormalizeEvent(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	timed, err := normalizeEvent(&gcal.Event{
		Id:       "abc",
		Summary:  "Easter Service",
		Location: "Sanctuary",
		HtmlLink: "https://calendar.google.com/event?eid=abc",
		Start:    &gcal.EventDateTime{DateTime: "2025-04-20T10:00:00-05:00"},
		End:      &gcal.EventDateTime{DateTime: "2025-04-20T11:30:00-05:00"},
	}, chicago)
	require.NoError(t, err)
	assert.Equal(t, "Easter Service", timed.Title)
	assert.False(t, timed.AllDay)
	assert.Equal(t, 90*time.Minute, timed.End.Sub(timed.Start))
	assert.Equal(t, "https://calendar.google.com/event?eid=abc", timed.URL)

	allDay, err := normalizeEvent(&gcal.Event{
		Id:    "def",
		Start: &gcal.EventDateTime{Date: "2025-06-01"},
		End:   &gcal.EventDateTime{Date: "2025-06-02"},
	}, chicago)
	require.NoError(t, err)
	assert.True(t, allDay.AllDay)
	assert.Equal(t, UntitledEvent, allDay.Title)
	assert.Equal(t, chicago, allDay.Start.Location())
	assert.Equal(t, 0, allDay.Start.Hour())

	_, err = normalizeEvent(&gcal.Event{Id: "bad", Start: &gcal.EventDateTime{}}, chicago)
	assert.Error(t, err)
}

func TestFeed_NoCredentialsServesFallback(t *testing.T) {
	src := &fakeSource{configured: false}
	res := newTestFeed(src, nil).Events(context.Background(), Credentials{})

	assert.Equal(t, SourceFallback, res.Source)
	assert.Empty(t, res.Error)
	assert.Equal(t, FallbackEvents(testNow, time.UTC), res.Events)
	assert.Zero(t, src.calls, "provider must not be called without credentials")
}

func TestFeed_ProviderErrorServesFallbackWithError(t *testing.T) {
	src := &fakeSource{configured: true, err: errors.New("googleapi: Error 403: forbidden")}
	res := newTestFeed(src, nil).Events(context.Background(), Credentials{AccessToken: "tok"})

	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, "googleapi: Error 403: forbidden", res.Error)
	assert.Equal(t, FallbackEvents(testNow, time.UTC), res.Events)
}

func TestFeed_LiveResultsCached(t *testing.T) {
	mc := cache.NewMemoryCache(time.Minute, 0)
	defer func() { _ = mc.Close() }()

	live := []Event{{ID: "1", Title: "Potluck", Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour)}}
	src := &fakeSource{configured: true, events: live}
	feed := newTestFeed(src, mc)

	for range 2 {
		res := feed.Events(context.Background(), Credentials{})
		assert.Equal(t, SourceGoogle, res.Source)
		require.Len(t, res.Events, 1)
		assert.Equal(t, "Potluck", res.Events[0].Title)
	}
	assert.Equal(t, 1, src.calls)

	feed.Invalidate(context.Background())
	feed.Events(context.Background(), Credentials{})
	assert.Equal(t, 2, src.calls)
}

func TestFeed_FailuresNotCached(t *testing.T) {
	mc := cache.NewMemoryCache(time.Minute, 0)
	defer func() { _ = mc.Close() }()

	src := &fakeSource{configured: true, err: errors.New("timeout")}
	feed := newTestFeed(src, mc)

	feed.Events(context.Background(), Credentials{})
	src.err = nil
	src.events = []Event{}
	res := feed.Events(context.Background(), Credentials{})

	assert.Equal(t, SourceGoogle, res.Source)
	assert.NotNil(t, res.Events)
	assert.Equal(t, 2, src.calls)
}

func TestGoogle_Configured(t *testing.T) {
	oauthCfg := Config{CalendarID: "c", ClientID: "id", ClientSecret: "secret"}

	tests := []struct {
		name  string
		cfg   Config
		creds Credentials
		want  bool
	}{
		{"nothing", Config{}, Credentials{}, false},
		{"calendar id only", Config{CalendarID: "c"}, Credentials{}, false},
		{"api key", Config{CalendarID: "c", APIKey: "k"}, Credentials{}, true},
		{"api key without calendar", Config{APIKey: "k"}, Credentials{}, false},
		{"cookie token", oauthCfg, Credentials{AccessToken: "t"}, true},
		{"cookie token without client", Config{CalendarID: "c"}, Credentials{AccessToken: "t"}, false},
		{"server refresh token", Config{CalendarID: "c", ClientID: "id", ClientSecret: "s", RefreshToken: "r"}, Credentials{}, true},
		{"oauth client without tokens", oauthCfg, Credentials{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewGoogle(tt.cfg).Configured(tt.creds))
		})
	}
}

func TestGoogle_EventsWithAPIKey(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		if !strings.HasSuffix(r.URL.Path, "/events") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":"e1","summary":"Choir Practice","status":"confirmed",
			 "start":{"dateTime":"2025-03-06T18:00:00Z"},"end":{"dateTime":"2025-03-06T19:00:00Z"}},
			{"id":"e2","summary":"Cancelled","status":"cancelled",
			 "start":{"dateTime":"2025-03-07T18:00:00Z"},"end":{"dateTime":"2025-03-07T19:00:00Z"}}
		]}`))
	}))
	defer srv.Close()

	g := NewGoogle(Config{CalendarID: "church@example.com", APIKey: "public-key", Timezone: "UTC"},
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))

	events, err := g.Events(context.Background(), Credentials{}, testNow)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Choir Practice", events[0].Title)
	assert.Equal(t, "true", gotQuery.Get("singleEvents"))
	assert.Equal(t, "startTime", gotQuery.Get("orderBy"))
	assert.Equal(t, testNow.Format(time.RFC3339), gotQuery.Get("timeMin"))
}

func TestGoogle_EventsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	g := NewGoogle(Config{CalendarID: "c", APIKey: "bad"},
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))

	_, err := g.Events(context.Background(), Credentials{}, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGoogle_CalendarsRequiresToken(t *testing.T) {
	g := NewGoogle(Config{CalendarID: "c", APIKey: "k"})
	_, err := g.Calendars(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOAuth_AuthURL(t *testing.T) {
	o := NewOAuth(Config{ClientID: "client-id", ClientSecret: "s", RedirectURL: "http://localhost:8080/api/calendar/callback"})
	require.True(t, o.Enabled())

	u, err := url.Parse(o.AuthURL("state-123"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Contains(t, q.Get("scope"), gcal.CalendarReadonlyScope)
	assert.Contains(t, q.Get("scope"), "userinfo.email")
}

func TestOAuth_ExchangeNotConfigured(t *testing.T) {
	_, err := NewOAuth(Config{}).Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
