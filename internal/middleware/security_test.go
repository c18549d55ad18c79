// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const (
	wantAPICSP         = "default-src 'none'; img-src 'self' data:; base-uri 'none'; form-action 'self'; frame-ancestors 'none'"
	wantAPIPermissions = "browsing-topics=(), camera=(), geolocation=(), microphone=(), payment=(), usb=()"
)

func serveWithHeaders(cfg SecurityHeadersConfig, path string) http.Header {
	rr := httptest.NewRecorder()
	SecurityHeaders(cfg)(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr.Header()
}

func TestSecurityHeaders_APIDefaults(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS string
	}{
		{"production", false, "max-age=31536000; includeSubDomains"},
		{"development", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := serveWithHeaders(DefaultSecurityHeadersConfig(tt.isDev), "/api/announcement")

			want := map[string]string{
				"Content-Security-Policy":   wantAPICSP,
				"Strict-Transport-Security": tt.wantHSTS,
				"X-Frame-Options":           "DENY",
				"X-Content-Type-Options":    "nosniff",
				"Referrer-Policy":           "strict-origin-when-cross-origin",
				"Permissions-Policy":        wantAPIPermissions,
			}
			for name, value := range want {
				if got := h.Get(name); got != value {
					t.Errorf("%s = %q, want %q", name, got, value)
				}
			}
		})
	}
}

func TestSecurityHeaders_ExcludedUploads(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/uploads/"}

	if got := serveWithHeaders(cfg, "/uploads/staffImage/pastor.jpg").Get("Content-Security-Policy"); got != "" {
		t.Errorf("uploads CSP = %q, want none", got)
	}
	if got := serveWithHeaders(cfg, "/api/staff").Get("Content-Security-Policy"); got != wantAPICSP {
		t.Errorf("api CSP = %q", got)
	}
}

func TestSecurityHeaders_Preload(t *testing.T) {
	cfg := SecurityHeadersConfig{HSTSMaxAge: 600, HSTSPreload: true}
	if got := serveWithHeaders(cfg, "/").Get("Strict-Transport-Security"); got != "max-age=600; preload" {
		t.Errorf("HSTS = %q", got)
	}

	cfg.HSTSMaxAge = 0
	if got := serveWithHeaders(cfg, "/").Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS with zero max-age = %q, want none", got)
	}
}

func TestBuildCSP_UnknownDirectivesSortedLast(t *testing.T) {
	got := buildCSP(map[string]string{
		"report-to":       "csp",
		"frame-ancestors": "'none'",
		"default-src":     "'none'",
		"block-all-mixed": "",
	})
	want := "default-src 'none'; frame-ancestors 'none'; block-all-mixed ; report-to csp"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}
