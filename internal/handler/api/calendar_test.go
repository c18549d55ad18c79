// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctuary-web/sanctuary/internal/calendar"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/testutil"
)

type fakeCalendar struct {
	configured bool
	events     []calendar.Event
	calendars  []calendar.CalendarInfo
	err        error
}

func (c *fakeCalendar) Configured(calendar.Credentials) bool { return c.configured }

func (c *fakeCalendar) Events(context.Context, calendar.Credentials, time.Time) ([]calendar.Event, error) {
	return c.events, c.err
}

func (c *fakeCalendar) Calendars(context.Context, calendar.Credentials) ([]calendar.CalendarInfo, error) {
	if !c.configured {
		return nil, calendar.ErrNotConfigured
	}
	return c.calendars, c.err
}

func (f *apiFixture) useCalendar(src calendar.Source) {
	f.handler.SetCalendarFeed(calendar.NewFeed(src, nil, 0, calendar.Config{Timezone: "America/Chicago"}, testutil.TestLogger()))
}

func TestCalendarEvents(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		f := newAPIFixture(t)
		f.useCalendar(&fakeCalendar{})

		rr := f.do(t, "", http.MethodGet, "/api/calendar/events", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		res := decodeAs[calendar.Result](t, rr)
		assert.Equal(t, calendar.SourceFallback, res.Source)
		assert.Empty(t, res.Error)
		assert.NotEmpty(t, res.Events)
	})

	t.Run("provider error", func(t *testing.T) {
		f := newAPIFixture(t)
		f.useCalendar(&fakeCalendar{configured: true, err: errors.New("googleapi: Error 403: forbidden")})

		rr := f.do(t, "", http.MethodGet, "/api/calendar/events", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		res := decodeAs[calendar.Result](t, rr)
		assert.Equal(t, calendar.SourceFallback, res.Source)
		assert.Contains(t, res.Error, "forbidden")
		assert.NotEmpty(t, res.Events)
	})

	t.Run("live events", func(t *testing.T) {
		f := newAPIFixture(t)
		start := time.Date(2026, 12, 24, 23, 0, 0, 0, time.UTC)
		f.useCalendar(&fakeCalendar{configured: true, events: []calendar.Event{
			{ID: "xmas", Title: "Christmas Eve Candlelight", Start: start, End: start.Add(time.Hour)},
		}})

		rr := f.do(t, "", http.MethodGet, "/api/calendar/events", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		res := decodeAs[calendar.Result](t, rr)
		assert.Equal(t, calendar.SourceGoogle, res.Source)
		require.Len(t, res.Events, 1)
		assert.Equal(t, "Christmas Eve Candlelight", res.Events[0].Title)
	})
}

func TestCalendars(t *testing.T) {
	t.Run("not connected", func(t *testing.T) {
		f := newAPIFixture(t)
		f.useCalendar(&fakeCalendar{})

		rr := f.do(t, model.RoleEditor, http.MethodGet, "/api/calendar/calendars", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("provider error", func(t *testing.T) {
		f := newAPIFixture(t)
		f.useCalendar(&fakeCalendar{configured: true, err: errors.New("timeout")})

		rr := f.do(t, model.RoleEditor, http.MethodGet, "/api/calendar/calendars", nil)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("connected", func(t *testing.T) {
		f := newAPIFixture(t)
		f.useCalendar(&fakeCalendar{configured: true, calendars: []calendar.CalendarInfo{
			{ID: "primary", Summary: "Grace Church", Primary: true},
		}})

		rr := f.do(t, model.RoleEditor, http.MethodGet, "/api/calendar/calendars", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		got := decodeAs[map[string][]calendar.CalendarInfo](t, rr)
		require.Len(t, got["calendars"], 1)
		assert.True(t, got["calendars"][0].Primary)
	})
}
