// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctuary-web/sanctuary/internal/captcha"
	"github.com/sanctuary-web/sanctuary/internal/mail"
	"github.com/sanctuary-web/sanctuary/internal/middleware"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/service"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/testutil"
)

// testUserHeader selects the signed-in role for a fixture request.
const testUserHeader = "X-Test-Role"

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type apiFixture struct {
	db      *sql.DB
	queries *store.Queries
	handler *Handler
	router  http.Handler
	mailer  *recordingMailer
	users   map[string]store.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.TestDB(t)
	f := &apiFixture{
		db:      db,
		queries: store.New(db),
		mailer:  &recordingMailer{},
		users:   make(map[string]store.User),
	}
	for _, role := range []string{model.RoleAdmin, model.RoleEditor, model.RoleViewer} {
		f.users[role] = testutil.CreateUser(t, db, role+"@example.com", role)
	}

	f.handler = NewHandler(db, service.NewEventService(db))
	f.handler.SetSubmissionService(service.NewSubmissionService(db, f.mailer, captcha.Noop{}, service.SubmissionConfig{
		ChurchName: "Grace Church",
		Recipient:  func(kind string) string { return kind + "@church.example.com" },
	}, testutil.TestLogger()))

	r := chi.NewRouter()
	r.Use(f.loadTestUser)
	r.Route("/api", func(r chi.Router) {
		f.handler.Routes(r, RouteOptions{})
	})
	f.router = r
	return f
}

func (f *apiFixture) loadTestUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := f.users[r.Header.Get(testUserHeader)]; ok {
			r = middleware.WithUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// do sends a request as the given role ("" for anonymous). A string body is
// sent verbatim; anything else is JSON encoded.
func (f *apiFixture) do(t *testing.T, role, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set(testUserHeader, role)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeAs[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestWriteValidationError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteValidationError(rr, map[string]string{"email": "must be a valid email address"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeAs[ErrorResponse](t, rr)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Equal(t, "must be a valid email address", body.Fields["email"])
}

func TestRequireEntityByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		fetchErr error
		wantOK   bool
		wantCode int
	}{
		{"found", "7", nil, true, http.StatusOK},
		{"invalid id", "abc", nil, false, http.StatusBadRequest},
		{"not found", "7", sql.ErrNoRows, false, http.StatusNotFound},
		{"store failure", "7", errors.New("disk I/O error"), false, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			got, ok := requireEntityByID(rr, req, "ministry", func(id int64) (int64, error) {
				return id, tt.fetchErr
			})

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, rr.Code)
			if ok {
				assert.EqualValues(t, 7, got)
			}
			if tt.wantCode == http.StatusNotFound {
				assert.Equal(t, "Ministry not found", decodeAs[ErrorResponse](t, rr).Error)
			}
		})
	}
}

func TestCapitalizeFirst(t *testing.T) {
	assert.Equal(t, "", capitalizeFirst(""))
	assert.Equal(t, "Slide", capitalizeFirst("slide"))
	assert.Equal(t, "FAQ", capitalizeFirst("FAQ"))
}

func TestDecodeJSON_Invalid(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/faqs", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid JSON body", decodeAs[ErrorResponse](t, rr).Error)
}
