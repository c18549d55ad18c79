// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	maxEvents      = 50
	requestTimeout = 15 * time.Second
)

// Source fetches calendars and events from a provider.
type Source interface {
	// Configured reports whether Events can reach the provider for creds.
	Configured(creds Credentials) bool
	Events(ctx context.Context, creds Credentials, from time.Time) ([]Event, error)
	Calendars(ctx context.Context, creds Credentials) ([]CalendarInfo, error)
}

// Google reads events through the Google Calendar API.
type Google struct {
	cfg        Config
	oauth      *OAuth
	loc        *time.Location
	clientOpts []option.ClientOption
}

// NewGoogle creates a Google Calendar source. Extra client options are
// appended to every API client.
func NewGoogle(cfg Config, opts ...option.ClientOption) *Google {
	return &Google{
		cfg:        cfg,
		oauth:      NewOAuth(cfg, opts...),
		loc:        cfg.Location(),
		clientOpts: opts,
	}
}

// Configured implements Source. Cookie tokens win over the server refresh
// token, which wins over the public API key.
func (g *Google) Configured(creds Credentials) bool {
	if g.cfg.CalendarID == "" {
		return false
	}
	if (creds.HasToken() || g.cfg.RefreshToken != "") && g.oauth.Enabled() {
		return true
	}
	return g.cfg.APIKey != ""
}

func (g *Google) authOption(ctx context.Context, creds Credentials) (option.ClientOption, error) {
	switch {
	case creds.HasToken() && g.oauth.Enabled():
		return option.WithTokenSource(g.oauth.tokenSource(ctx, creds)), nil
	case g.cfg.RefreshToken != "" && g.oauth.Enabled():
		ts := g.oauth.config.TokenSource(ctx, &oauth2.Token{RefreshToken: g.cfg.RefreshToken})
		return option.WithTokenSource(ts), nil
	case g.cfg.APIKey != "":
		return option.WithAPIKey(g.cfg.APIKey), nil
	default:
		return nil, ErrNotConfigured
	}
}

func (g *Google) service(ctx context.Context, auth option.ClientOption) (*gcal.Service, error) {
	opts := append([]option.ClientOption{auth}, g.clientOpts...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating calendar client: %w", err)
	}
	return svc, nil
}

// Events implements Source. Recurring events are expanded into single
// instances and ordered by start time.
func (g *Google) Events(ctx context.Context, creds Credentials, from time.Time) ([]Event, error) {
	if !g.Configured(creds) {
		return nil, ErrNotConfigured
	}
	auth, err := g.authOption(ctx, creds)
	if err != nil {
		return nil, err
	}
	svc, err := g.service(ctx, auth)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := svc.Events.List(g.cfg.CalendarID).
		TimeMin(from.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxEvents).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Status == "cancelled" {
			continue
		}
		ev, err := normalizeEvent(item, g.loc)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// Calendars implements Source. Listing calendars needs a user token.
func (g *Google) Calendars(ctx context.Context, creds Credentials) ([]CalendarInfo, error) {
	if !g.oauth.Enabled() || (!creds.HasToken() && g.cfg.RefreshToken == "") {
		return nil, ErrNotConfigured
	}
	auth, err := g.authOption(ctx, creds)
	if err != nil {
		return nil, err
	}
	svc, err := g.service(ctx, auth)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}

	out := make([]CalendarInfo, 0, len(resp.Items))
	for _, c := range resp.Items {
		out = append(out, CalendarInfo{
			ID:          c.Id,
			Summary:     c.Summary,
			Description: c.Description,
			Primary:     c.Primary,
			TimeZone:    c.TimeZone,
		})
	}
	return out, nil
}

// OAuth returns the OAuth flow used by this source.
func (g *Google) OAuth() *OAuth {
	return g.oauth
}

var _ Source = (*Google)(nil)
