// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package calendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/sanctuary-web/sanctuary/internal/cache"
	"github.com/sanctuary-web/sanctuary/internal/metrics"
	"github.com/sanctuary-web/sanctuary/internal/model"
)

// Feed sources.
const (
	SourceGoogle   = "google"
	SourceFallback = "fallback"
)

// Result is the public calendar response.
type Result struct {
	Events []Event `json:"events"`
	Source string  `json:"source"`
	Error  string  `json:"error,omitempty"`
}

// Feed serves upcoming events, degrading to the weekly schedule when the
// provider is unavailable. Only successful live results are cached.
type Feed struct {
	source   Source
	cache    *cache.TypedCache[[]Event]
	cacheKey string
	loc      *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewFeed creates a feed. A nil cache disables caching.
func NewFeed(source Source, c cache.Cache, ttl time.Duration, cfg Config, logger *slog.Logger) *Feed {
	f := &Feed{
		source:   source,
		cacheKey: "calendar:events:" + cfg.CalendarID,
		loc:      cfg.Location(),
		logger:   logger,
		now:      time.Now,
	}
	if c != nil && ttl > 0 {
		f.cache = cache.NewTypedCache[[]Event](c, ttl)
	}
	return f
}

// Events returns live events or the fallback list. Provider errors are
// logged and reported in Result.Error; they never fail the call.
func (f *Feed) Events(ctx context.Context, creds Credentials) Result {
	now := f.now()
	if !f.source.Configured(creds) {
		metrics.CalendarFetchTotal.WithLabelValues(SourceFallback).Inc()
		return Result{Events: FallbackEvents(now, f.loc), Source: SourceFallback}
	}

	load := func() (*[]Event, error) {
		events, err := f.source.Events(ctx, creds, now)
		if err != nil {
			return nil, err
		}
		return &events, nil
	}

	var (
		events *[]Event
		err    error
	)
	if f.cache != nil {
		events, err = f.cache.GetOrSet(ctx, f.cacheKey, load)
	} else {
		events, err = load()
	}
	if err != nil {
		f.logger.Warn("calendar fetch failed, serving fallback events",
			"category", model.EventCategoryCalendar, "error", err)
		metrics.CalendarFetchTotal.WithLabelValues(SourceFallback).Inc()
		return Result{Events: FallbackEvents(now, f.loc), Source: SourceFallback, Error: err.Error()}
	}

	list := *events
	if list == nil {
		list = []Event{}
	}
	metrics.CalendarFetchTotal.WithLabelValues(SourceGoogle).Inc()
	return Result{Events: list, Source: SourceGoogle}
}

// Calendars lists the connected account's calendars.
func (f *Feed) Calendars(ctx context.Context, creds Credentials) ([]CalendarInfo, error) {
	return f.source.Calendars(ctx, creds)
}

// Invalidate drops cached live events, e.g. after a new account is connected.
func (f *Feed) Invalidate(ctx context.Context) {
	if f.cache != nil {
		_ = f.cache.Delete(ctx, f.cacheKey)
	}
}
