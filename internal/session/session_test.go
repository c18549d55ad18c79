// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX sessions_expiry_idx ON sessions(expiry);
	`)
	if err != nil {
		t.Fatalf("failed to create sessions table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		isDev      bool
		wantSecure bool
	}{
		{"development", true, false},
		{"production", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := New(setupTestDB(t), tt.isDev)

			if sm.Lifetime != 24*time.Hour {
				t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
			}
			if !sm.Cookie.HttpOnly {
				t.Error("cookie should be HttpOnly")
			}
			if sm.Cookie.SameSite != http.SameSiteLaxMode {
				t.Errorf("SameSite = %v, want Lax", sm.Cookie.SameSite)
			}
			if sm.Cookie.Secure != tt.wantSecure {
				t.Errorf("Secure = %v, want %v", sm.Cookie.Secure, tt.wantSecure)
			}
			if sm.Cookie.Name != CookieName {
				t.Errorf("cookie name = %q, want %q", sm.Cookie.Name, CookieName)
			}
		})
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sm := New(setupTestDB(t), true)

	put := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), KeyUserID, int64(42))
	}))
	rec := httptest.NewRecorder()
	put.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}

	var got int64
	get := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = sm.GetInt64(r.Context(), KeyUserID)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	get.ServeHTTP(httptest.NewRecorder(), req)

	if got != 42 {
		t.Errorf("user id = %d, want 42", got)
	}
}
