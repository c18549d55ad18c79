// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
	"time"
)

func TestNullInt64FromPtr(t *testing.T) {
	if NullInt64FromPtr(nil).Valid {
		t.Error("nil pointer should be invalid")
	}
	v := int64(7)
	if got := NullInt64FromPtr(&v); !got.Valid || got.Int64 != 7 {
		t.Errorf("got %+v", got)
	}
}

func TestNullTimeRoundTrip(t *testing.T) {
	if NullTimeFromPtr(nil).Valid {
		t.Error("nil should be invalid")
	}
	zero := time.Time{}
	if NullTimeFromPtr(&zero).Valid {
		t.Error("zero time should be invalid")
	}

	loc := time.FixedZone("CST", -6*3600)
	ts := time.Date(2026, 4, 5, 10, 0, 0, 0, loc)
	nt := NullTimeFromPtr(&ts)
	if !nt.Valid || nt.Time.Location() != time.UTC {
		t.Fatalf("expected valid UTC time, got %+v", nt)
	}
	if p := NullTimeToPtr(nt); p == nil || !p.Equal(ts) {
		t.Errorf("NullTimeToPtr = %v, want %v", p, ts)
	}
	if NullTimeToPtr(sql.NullTime{}) != nil {
		t.Error("invalid NullTime should map to nil")
	}
}

func TestNullInt64ToPtr(t *testing.T) {
	if NullInt64ToPtr(sql.NullInt64{}) != nil {
		t.Error("invalid should be nil")
	}
	if p := NullInt64ToPtr(NullInt64FromValue(3)); p == nil || *p != 3 {
		t.Errorf("got %v", p)
	}
}
