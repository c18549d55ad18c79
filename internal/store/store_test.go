// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

// testDB creates a migrated database in a temporary file.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "sanctuary-store-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
		_ = os.Remove(dbPath + "-wal")
		_ = os.Remove(dbPath + "-shm")
	})
	return db
}

func createTestUser(t *testing.T, q *Queries, email, role string) User {
	t.Helper()
	now := time.Now().UTC()
	u, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestCreateAndGetUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	user := createTestUser(t, q, "editor@example.com", "editor")
	if user.ID == 0 {
		t.Fatal("user.ID should not be 0")
	}

	got, err := q.GetUserByEmail(ctx, "EDITOR@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("GetUserByEmail returned id %d, want %d", got.ID, user.ID)
	}

	exists, err := q.UserEmailExists(ctx, "editor@example.com", 0)
	if err != nil {
		t.Fatalf("UserEmailExists: %v", err)
	}
	if !exists {
		t.Error("expected email to exist")
	}
	exists, err = q.UserEmailExists(ctx, "editor@example.com", user.ID)
	if err != nil {
		t.Fatalf("UserEmailExists: %v", err)
	}
	if exists {
		t.Error("email should not count against its own user")
	}
}

func TestCreateUser_InvalidRole(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()
	_, err := New(db).CreateUser(context.Background(), CreateUserParams{
		Email:     "x@example.com",
		Role:      "owner",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		t.Fatal("expected check constraint to reject unknown role")
	}
}

func TestBlogPostSlugUnique(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	params := CreateBlogPostParams{
		Title:     "Easter Recap",
		Slug:      "easter-recap",
		Status:    "draft",
		CreatedAt: now,
		UpdatedAt: now,
	}
	first, err := q.CreateBlogPost(ctx, params)
	if err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}

	_, err = q.CreateBlogPost(ctx, params)
	if err == nil {
		t.Fatal("expected unique constraint error for duplicate slug")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}

	exists, err := q.BlogSlugExists(ctx, "easter-recap", 0)
	if err != nil {
		t.Fatalf("BlogSlugExists: %v", err)
	}
	if !exists {
		t.Error("slug should exist")
	}
	exists, err = q.BlogSlugExists(ctx, "easter-recap", first.ID)
	if err != nil {
		t.Fatalf("BlogSlugExists: %v", err)
	}
	if exists {
		t.Error("slug should not conflict with its own post")
	}

	count, err := q.CountBlogPosts(ctx, "")
	if err != nil {
		t.Fatalf("CountBlogPosts: %v", err)
	}
	if count != 1 {
		t.Errorf("CountBlogPosts = %d, want 1", count)
	}
}

func TestPublishedBlogPosts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	for i, status := range []string{"published", "draft", "published", "archived"} {
		_, err := q.CreateBlogPost(ctx, CreateBlogPostParams{
			Title:       "Post",
			Slug:        "post-" + string(rune('a'+i)),
			Status:      status,
			PublishedAt: sql.NullTime{Time: now.Add(time.Duration(i) * time.Hour), Valid: status == "published"},
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			t.Fatalf("CreateBlogPost: %v", err)
		}
	}

	posts, err := q.ListPublishedBlogPosts(ctx, ListPublishedBlogPostsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListPublishedBlogPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d published posts, want 2", len(posts))
	}
	if posts[0].Slug != "post-c" {
		t.Errorf("newest published post first: got %s", posts[0].Slug)
	}

	if _, err := q.GetPublishedBlogPostBySlug(ctx, "post-b"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("draft post should not be visible by slug, got err %v", err)
	}
}

func TestScheduledBlogPosts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	due, err := q.CreateBlogPost(ctx, CreateBlogPostParams{
		Title:       "Due",
		Slug:        "due",
		Status:      "draft",
		ScheduledAt: sql.NullTime{Time: now.Add(-time.Minute), Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}
	if _, err := q.CreateBlogPost(ctx, CreateBlogPostParams{
		Title:       "Later",
		Slug:        "later",
		Status:      "draft",
		ScheduledAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}

	posts, err := q.ListScheduledBlogPostsDue(ctx, now)
	if err != nil {
		t.Fatalf("ListScheduledBlogPostsDue: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != due.ID {
		t.Fatalf("expected only the due post, got %+v", posts)
	}

	n, err := q.PublishScheduledBlogPost(ctx, PublishScheduledBlogPostParams{PublishedAt: now, UpdatedAt: now, ID: due.ID})
	if err != nil {
		t.Fatalf("PublishScheduledBlogPost: %v", err)
	}
	if n != 1 {
		t.Errorf("rows affected = %d, want 1", n)
	}

	got, err := q.GetBlogPostByID(ctx, due.ID)
	if err != nil {
		t.Fatalf("GetBlogPostByID: %v", err)
	}
	if got.Status != "published" || !got.PublishedAt.Valid || got.ScheduledAt.Valid {
		t.Errorf("post not published correctly: %+v", got)
	}
}

func TestActivate_LeavesExactlyOneActive(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	var ids []int64
	for i, title := range []string{"Advent", "Psalms", "Romans"} {
		s, err := q.CreateCurrentSeries(ctx, CreateCurrentSeriesParams{
			Title:     title,
			IsActive:  i == 0,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateCurrentSeries: %v", err)
		}
		ids = append(ids, s.ID)
	}

	for _, id := range []int64{ids[2], ids[1], ids[1]} {
		if err := Activate(ctx, db, TableCurrentSeries, id); err != nil {
			t.Fatalf("Activate(%d): %v", id, err)
		}

		count, err := q.CountActiveCurrentSeries(ctx)
		if err != nil {
			t.Fatalf("CountActiveCurrentSeries: %v", err)
		}
		if count != 1 {
			t.Fatalf("active count = %d after activating %d, want 1", count, id)
		}

		active, err := q.GetActiveCurrentSeries(ctx)
		if err != nil {
			t.Fatalf("GetActiveCurrentSeries: %v", err)
		}
		if active.ID != id {
			t.Errorf("active series = %d, want %d", active.ID, id)
		}
	}
}

func TestActivate_MissingRowRollsBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	banner, err := q.CreateAnnouncementBanner(ctx, CreateAnnouncementBannerParams{
		Message:   "Christmas Eve service at 6 PM",
		Variant:   "info",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateAnnouncementBanner: %v", err)
	}

	err = Activate(ctx, db, TableAnnouncementBanners, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	active, err := q.GetActiveAnnouncementBanner(ctx)
	if err != nil {
		t.Fatalf("previous banner should still be active: %v", err)
	}
	if active.ID != banner.ID {
		t.Errorf("active banner = %d, want %d", active.ID, banner.ID)
	}
}

func TestSingleActiveIndex(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	params := CreateDonateSettingParams{
		Title:     "Give",
		DonateURL: "https://example.org/give",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := q.CreateDonateSetting(ctx, params); err != nil {
		t.Fatalf("CreateDonateSetting: %v", err)
	}
	if _, err := q.CreateDonateSetting(ctx, params); err == nil {
		t.Fatal("database should reject a second active donate setting")
	}

	params.IsActive = false
	if _, err := q.CreateDonateSetting(ctx, params); err != nil {
		t.Fatalf("inactive rows are unrestricted: %v", err)
	}
}

func TestDeactivateOthers_RejectsUnknownTable(t *testing.T) {
	db := testDB(t)
	if err := New(db).DeactivateOthers(context.Background(), "users", 0); err == nil {
		t.Fatal("expected error for table without single-active semantics")
	}
}

func TestSetSortOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	var ids []int64
	for _, question := range []string{"A?", "B?", "C?"} {
		f, err := q.CreateFaq(ctx, CreateFaqParams{Question: question, Answer: "Yes", IsActive: true, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			t.Fatalf("CreateFaq: %v", err)
		}
		ids = append(ids, f.ID)
	}

	reversed := []int64{ids[2], ids[1], ids[0]}
	if err := ExecTx(ctx, db, func(q *Queries) error { return q.SetSortOrder(ctx, "faqs", reversed) }); err != nil {
		t.Fatalf("SetSortOrder: %v", err)
	}

	faqs, err := q.ListFaqs(ctx, true)
	if err != nil {
		t.Fatalf("ListFaqs: %v", err)
	}
	for i, f := range faqs {
		if f.ID != reversed[i] {
			t.Errorf("position %d: got id %d, want %d", i, f.ID, reversed[i])
		}
	}

	if err := q.SetSortOrder(ctx, "users", ids); err == nil {
		t.Error("expected error for unordered table")
	}
}

func TestListFaqs_ActiveOnly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	for _, active := range []bool{true, false} {
		if _, err := q.CreateFaq(ctx, CreateFaqParams{Question: "Q", Answer: "A", IsActive: active, CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatalf("CreateFaq: %v", err)
		}
	}

	all, err := q.ListFaqs(ctx, false)
	if err != nil {
		t.Fatalf("ListFaqs: %v", err)
	}
	active, err := q.ListFaqs(ctx, true)
	if err != nil {
		t.Fatalf("ListFaqs: %v", err)
	}
	if len(all) != 2 || len(active) != 1 {
		t.Errorf("got all=%d active=%d, want 2 and 1", len(all), len(active))
	}
}

func TestSubmissions(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	c, err := q.CreateContactSubmission(ctx, CreateContactSubmissionParams{
		Name: "Jane", Email: "jane@example.com", Message: "Hi", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateContactSubmission: %v", err)
	}
	if c.IsRead {
		t.Error("new submission should be unread")
	}

	unread, err := q.CountContactSubmissions(ctx, true)
	if err != nil {
		t.Fatalf("CountContactSubmissions: %v", err)
	}
	if unread != 1 {
		t.Errorf("unread = %d, want 1", unread)
	}

	if _, err := q.MarkContactSubmissionRead(ctx, c.ID, true); err != nil {
		t.Fatalf("MarkContactSubmissionRead: %v", err)
	}
	unread, _ = q.CountContactSubmissions(ctx, true)
	if unread != 0 {
		t.Errorf("unread = %d after marking read, want 0", unread)
	}

	v, err := q.CreateVolunteerSignup(ctx, CreateVolunteerSignupParams{
		Name: "Sam", Email: "sam@example.com", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateVolunteerSignup: %v", err)
	}
	if v.Status != "pending" {
		t.Errorf("status = %q, want pending", v.Status)
	}
	if _, err := q.UpdateVolunteerSignupStatus(ctx, v.ID, "retired"); err == nil {
		t.Error("expected check constraint to reject unknown status")
	}
}

func TestDeleteOldEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	for _, at := range []time.Time{now.AddDate(0, 0, -100), now} {
		if _, err := q.CreateEvent(ctx, CreateEventParams{
			Level: "info", Category: "system", Message: "tick", Metadata: "{}", CreatedAt: at,
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	n, err := q.DeleteOldEvents(ctx, now.AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("DeleteOldEvents: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d events, want 1", n)
	}

	remaining, err := q.CountEvents(ctx, CountEventsParams{})
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}
}

func TestSeed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	if err := Seed(ctx, db, false); err != nil {
		t.Fatalf("Seed disabled: %v", err)
	}
	if n, _ := q.CountUsers(ctx); n != 0 {
		t.Fatalf("disabled seed created %d users", n)
	}

	for i := 0; i < 2; i++ {
		if err := Seed(ctx, db, true); err != nil {
			t.Fatalf("Seed run %d: %v", i, err)
		}
	}

	admin, err := q.GetUserByEmail(ctx, DefaultAdminEmail)
	if err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if admin.Role != "admin" {
		t.Errorf("admin role = %q", admin.Role)
	}

	faqs, err := q.CountFaqs(ctx)
	if err != nil {
		t.Fatalf("CountFaqs: %v", err)
	}
	if faqs != 3 {
		t.Errorf("faqs = %d after two seed runs, want 3", faqs)
	}

	if _, err := q.GetActiveDonateSetting(ctx); err != nil {
		t.Errorf("active donate setting not seeded: %v", err)
	}
}

func TestNewDB_PragmasOnEveryConnection(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Two connections held at once cannot share the same pooled conn.
	conns := make([]*sql.Conn, 2)
	for i := range conns {
		c, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn %d: %v", i, err)
		}
		defer func() { _ = c.Close() }()
		conns[i] = c
	}

	for i, c := range conns {
		var fk, busy int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if fk != 1 || busy != 5000 {
			t.Errorf("conn %d: foreign_keys=%d busy_timeout=%d, want 1 and 5000", i, fk, busy)
		}
	}
}

func TestDSN(t *testing.T) {
	got := dsn("/data/church.db")
	if !strings.HasPrefix(got, "/data/church.db?_pragma=") {
		t.Errorf("dsn() = %q", got)
	}
	if !strings.Contains(got, "foreign_keys%281%29") {
		t.Errorf("dsn() missing foreign_keys pragma: %q", got)
	}
	if got := dsn("file:x.db?mode=ro"); !strings.HasPrefix(got, "file:x.db?mode=ro&_pragma=") {
		t.Errorf("dsn() with query = %q", got)
	}
}

func TestIsUniqueViolation_OtherErrors(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if IsUniqueViolation(nil) || IsUniqueViolation(sql.ErrNoRows) {
		t.Error("IsUniqueViolation should be false for non-constraint errors")
	}

	// NOT NULL is a constraint too, but not a uniqueness one.
	_, err := db.ExecContext(ctx, "INSERT INTO blog_posts (title) VALUES (NULL)")
	if err == nil {
		t.Fatal("expected NOT NULL constraint error")
	}
	if IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = true, want false", err)
	}
}
