// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package calendar connects a Google Calendar account and serves its upcoming
// events, falling back to the church's regular weekly schedule.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Scopes requested when connecting a calendar account.
var Scopes = []string{
	gcal.CalendarReadonlyScope,
	oauth2api.UserinfoEmailScope,
}

// ErrNotConfigured is returned when calendar credentials are missing.
var ErrNotConfigured = errors.New("calendar: not configured")

// Config holds Google Calendar settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	CalendarID   string
	RefreshToken string // server-side refresh token, used when no cookies are present
	APIKey       string // public calendar access
	Timezone     string
}

// OAuthEnabled reports whether an OAuth client is configured.
func (c Config) OAuthEnabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Location returns the configured time zone, or UTC if it cannot be loaded.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Credentials are the per-request tokens taken from the admin's cookies.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// HasToken reports whether any user token is present.
func (c Credentials) HasToken() bool {
	return c.AccessToken != "" || c.RefreshToken != ""
}

// Token is the result of a successful OAuth exchange.
type Token struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Email        string
}

// OAuth runs the authorization code flow for calendar access.
type OAuth struct {
	config *oauth2.Config
	// clientOpts are appended when calling Google APIs after the exchange.
	clientOpts []option.ClientOption
}

// NewOAuth creates the OAuth flow for the given configuration.
func NewOAuth(cfg Config, opts ...option.ClientOption) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
		clientOpts: opts,
	}
}

// Enabled reports whether the OAuth client ID and secret are set.
func (o *OAuth) Enabled() bool {
	return o.config.ClientID != "" && o.config.ClientSecret != ""
}

// AuthURL builds the provider authorization URL. Offline access with a forced
// consent prompt makes Google return a refresh token on every connect.
func (o *OAuth) AuthURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for tokens and looks up the account email.
func (o *OAuth) Exchange(ctx context.Context, code string) (*Token, error) {
	if !o.Enabled() {
		return nil, ErrNotConfigured
	}
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	tok, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	result := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}

	opts := append([]option.ClientOption{option.WithTokenSource(o.config.TokenSource(ctx, tok))}, o.clientOpts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetching account email: %w", err)
	}
	result.Email = info.Email
	return result, nil
}

// tokenSource returns an oauth2 token source for user credentials.
func (o *OAuth) tokenSource(ctx context.Context, creds Credentials) oauth2.TokenSource {
	return o.config.TokenSource(ctx, &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       creds.Expiry,
	})
}
