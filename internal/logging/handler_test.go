// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/testutil"
)

func listAll(t *testing.T, q *store.Queries) []store.Event {
	t.Helper()
	events, err := q.ListEvents(context.Background(), store.ListEventsParams{Limit: 50})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_ErrorLevel(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(slog.NewTextHandler(io.Discard, nil), db))

	logger.Error("database connection failed", "host", "localhost", "port", 5432)

	events := listAll(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Level != model.EventLevelError {
		t.Errorf("Level = %q, want %q", e.Level, model.EventLevelError)
	}
	if e.Category != model.EventCategorySystem {
		t.Errorf("Category = %q, want %q", e.Category, model.EventCategorySystem)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["host"] != "localhost" || meta["port"] != "5432" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestEventLogHandler_InfoNotPersisted(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(slog.NewTextHandler(io.Discard, nil), db))

	logger.Info("server started")

	if events := listAll(t, store.New(db)); len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestEventLogHandler_ExplicitCategoryAndAttrs(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(slog.NewTextHandler(io.Discard, nil), db)).
		With("component", "feed")

	logger.Warn("provider returned 403", "category", model.EventCategoryCalendar, "message", `quoted "value"`)

	events := listAll(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryCalendar {
		t.Errorf("Category = %q", events[0].Category)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["component"] != "feed" {
		t.Errorf("WithAttrs attribute missing: %v", meta)
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be duplicated in metadata")
	}
}

func TestInferCategory(t *testing.T) {
	tests := map[string]string{
		"login failed":            model.EventCategoryAuth,
		"calendar fetch failed":   model.EventCategoryCalendar,
		"sending email failed":    model.EventCategoryEmail,
		"upload rejected":         model.EventCategoryUpload,
		"prayer request stored":   model.EventCategorySubmission,
		"user deleted":            model.EventCategoryUser,
		"redis unavailable":       model.EventCategoryCache,
		"something else entirely": model.EventCategorySystem,
	}
	for msg, want := range tests {
		if got := inferCategory(msg); got != want {
			t.Errorf("inferCategory(%q) = %q, want %q", msg, got, want)
		}
	}
}
