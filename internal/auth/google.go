// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// ErrGoogleNotConfigured is returned when Google sign-in has no client credentials.
var ErrGoogleNotConfigured = errors.New("google sign-in is not configured")

// GoogleConfig holds the OAuth client used for staff sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleIdentity is the verified identity returned by a completed sign-in.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// tokenValidator verifies a Google ID token for the given audience.
type tokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleLogin runs the OpenID Connect authorization code flow against Google.
type GoogleLogin struct {
	oauth    *oauth2.Config
	clientID string
	validate tokenValidator
}

// NewGoogleLogin creates a GoogleLogin. It is usable only when Enabled returns true.
func NewGoogleLogin(cfg GoogleConfig) *GoogleLogin {
	return &GoogleLogin{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		clientID: cfg.ClientID,
		validate: idtoken.Validate,
	}
}

// Enabled reports whether client credentials are present.
func (g *GoogleLogin) Enabled() bool {
	return g.oauth.ClientID != "" && g.oauth.ClientSecret != "" && g.oauth.RedirectURL != ""
}

// NewState returns a random value for the OAuth state parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthURL returns the consent screen URL for state.
func (g *GoogleLogin) AuthURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades an authorization code for a verified identity.
func (g *GoogleLogin) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	if !g.Enabled() {
		return nil, ErrGoogleNotConfigured
	}

	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response has no id_token")
	}

	return g.identityFromToken(ctx, rawIDToken)
}

func (g *GoogleLogin) identityFromToken(ctx context.Context, rawIDToken string) (*GoogleIdentity, error) {
	payload, err := g.validate(ctx, rawIDToken, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("validating id_token: %w", err)
	}

	id := &GoogleIdentity{Subject: payload.Subject}
	if v, ok := payload.Claims["email"].(string); ok {
		id.Email = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := payload.Claims["email_verified"].(bool); ok {
		id.EmailVerified = v
	}
	if v, ok := payload.Claims["name"].(string); ok {
		id.Name = v
	}
	if v, ok := payload.Claims["picture"].(string); ok {
		id.Picture = v
	}

	if id.Email == "" {
		return nil, errors.New("id_token has no email claim")
	}
	if !id.EmailVerified {
		return nil, fmt.Errorf("google account email %s is not verified", id.Email)
	}
	return id, nil
}
