// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package calendar

import (
	"sort"
	"time"
)

type weeklyEvent struct {
	id          string
	title       string
	description string
	weekday     time.Weekday
	hour        int
	minute      int
	duration    time.Duration
}

const churchLocation = "Main Campus"

var weeklySchedule = []weeklyEvent{
	{"sunday-school", "Sunday School", "Classes for all ages before worship.", time.Sunday, 9, 15, time.Hour},
	{"sunday-worship", "Sunday Worship Service", "Join us for worship, prayer and the Word.", time.Sunday, 10, 30, 90 * time.Minute},
	{"wednesday-bible-study", "Wednesday Bible Study", "Midweek study and fellowship.", time.Wednesday, 19, 0, 90 * time.Minute},
	{"friday-youth-group", "Friday Youth Group", "Games, worship and small groups for students.", time.Friday, 18, 30, 2 * time.Hour},
	{"saturday-prayer", "Saturday Prayer Meeting", "Gathering to pray for our church and city.", time.Saturday, 8, 0, time.Hour},
}

// FallbackEvents returns the regular weekly schedule, each event dated at its
// next occurrence after now in loc, sorted by start time.
func FallbackEvents(now time.Time, loc *time.Location) []Event {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	events := make([]Event, 0, len(weeklySchedule))
	for _, w := range weeklySchedule {
		start := nextOccurrence(now, w.weekday, w.hour, w.minute)
		events = append(events, Event{
			ID:          "fallback-" + w.id,
			Title:       w.title,
			Description: w.description,
			Location:    churchLocation,
			Start:       start,
			End:         start.Add(w.duration),
		})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

// nextOccurrence returns the first time on weekday at hour:minute strictly after now.
func nextOccurrence(now time.Time, weekday time.Weekday, hour, minute int) time.Time {
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day()+days, hour, minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
