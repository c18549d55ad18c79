// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package calendar

import (
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// UntitledEvent is used for provider events without a summary.
const UntitledEvent = "Untitled event"

// Event is a normalized calendar event.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
	URL         string    `json:"url,omitempty"`
}

// CalendarInfo describes one calendar of the connected account.
type CalendarInfo struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Primary     bool   `json:"primary"`
	TimeZone    string `json:"timeZone,omitempty"`
}

// normalizeEvent converts a provider event. All-day dates are interpreted in loc.
func normalizeEvent(ev *gcal.Event, loc *time.Location) (Event, error) {
	start, startAllDay, err := parseEventTime(ev.Start, loc)
	if err != nil {
		return Event{}, fmt.Errorf("event %s start: %w", ev.Id, err)
	}
	end, _, err := parseEventTime(ev.End, loc)
	if err != nil {
		return Event{}, fmt.Errorf("event %s end: %w", ev.Id, err)
	}

	title := ev.Summary
	if title == "" {
		title = UntitledEvent
	}

	return Event{
		ID:          ev.Id,
		Title:       title,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       start,
		End:         end,
		AllDay:      startAllDay,
		URL:         ev.HtmlLink,
	}, nil
}

func parseEventTime(t *gcal.EventDateTime, loc *time.Location) (time.Time, bool, error) {
	if t == nil {
		return time.Time{}, false, fmt.Errorf("missing time")
	}
	if t.DateTime != "" {
		v, err := time.Parse(time.RFC3339, t.DateTime)
		return v, false, err
	}
	if t.Date != "" {
		v, err := time.ParseInLocation(time.DateOnly, t.Date, loc)
		return v, true, err
	}
	return time.Time{}, false, fmt.Errorf("empty time")
}
