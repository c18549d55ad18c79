// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package calendar

import (
	"net/http"
	"time"
)

// Cookie names holding the connected account's tokens.
const (
	CookieAccessToken  = "google_access_token"
	CookieRefreshToken = "google_refresh_token"
	CookieUserEmail    = "google_user_email"
)

const (
	defaultAccessTokenLifetime = time.Hour
	refreshCookieLifetime      = 30 * 24 * time.Hour
)

// CredentialsFromRequest reads the token cookies set by the OAuth callback.
func CredentialsFromRequest(r *http.Request) Credentials {
	var creds Credentials
	if c, err := r.Cookie(CookieAccessToken); err == nil {
		creds.AccessToken = c.Value
	}
	if c, err := r.Cookie(CookieRefreshToken); err == nil {
		creds.RefreshToken = c.Value
	}
	return creds
}

// SetTokenCookies stores a fresh token. The access token cookie lives until
// the token expires; the refresh token and account email are kept 30 days.
// The email cookie is readable by scripts so the admin UI can show it.
func SetTokenCookies(w http.ResponseWriter, tok *Token, secure bool, now time.Time) {
	accessExpiry := tok.Expiry
	if accessExpiry.IsZero() || !accessExpiry.After(now) {
		accessExpiry = now.Add(defaultAccessTokenLifetime)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieAccessToken,
		Value:    tok.AccessToken,
		Path:     "/",
		Expires:  accessExpiry,
		MaxAge:   int(accessExpiry.Sub(now).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	if tok.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieRefreshToken,
			Value:    tok.RefreshToken,
			Path:     "/",
			MaxAge:   int(refreshCookieLifetime.Seconds()),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	if tok.Email != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieUserEmail,
			Value:    tok.Email,
			Path:     "/",
			MaxAge:   int(refreshCookieLifetime.Seconds()),
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ClearTokenCookies removes all calendar cookies.
func ClearTokenCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{CookieAccessToken, CookieRefreshToken, CookieUserEmail} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name != CookieUserEmail,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
