// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/testutil"
)

func TestNew(t *testing.T) {
	logger := testutil.TestLogger()

	s := New(nil, 0, logger)
	require.NotNil(t, s)
	assert.NotNil(t, s.cron)
	assert.Equal(t, DefaultEventRetention, s.retention)
	assert.Same(t, logger, s.logger)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.TestDB(t), time.Hour, testutil.TestLogger())

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}

func createPost(t *testing.T, q *store.Queries, slug, status string, scheduledAt *time.Time) store.BlogPost {
	t.Helper()
	now := time.Now().UTC()
	p, err := q.CreateBlogPost(context.Background(), store.CreateBlogPostParams{
		Title:       "Post " + slug,
		Slug:        slug,
		Content:     "Body",
		Status:      status,
		ScheduledAt: nullTime(scheduledAt),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return p
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func TestPublishDuePosts(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	due := createPost(t, q, "due", model.PostStatusDraft, &past)
	later := createPost(t, q, "later", model.PostStatusDraft, &future)
	plain := createPost(t, q, "plain", model.PostStatusDraft, nil)

	s := New(db, 0, testutil.TestLogger())
	n, err := s.PublishDuePosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := q.GetBlogPostByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusPublished, got.Status)
	assert.True(t, got.PublishedAt.Valid)
	assert.False(t, got.ScheduledAt.Valid)

	for _, id := range []int64{later.ID, plain.ID} {
		got, err := q.GetBlogPostByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.PostStatusDraft, got.Status)
	}

	// A second run finds nothing left to publish.
	n, err = s.PublishDuePosts(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	logged, err := q.ListEvents(ctx, store.ListEventsParams{Category: model.EventCategoryContent, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, logged, 1)
}

func TestPruneEvents(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	for _, age := range []time.Duration{100 * 24 * time.Hour, time.Hour} {
		_, err := q.CreateEvent(ctx, store.CreateEventParams{
			Level:     model.EventLevelInfo,
			Category:  model.EventCategorySystem,
			Message:   "event",
			Metadata:  "{}",
			CreatedAt: time.Now().UTC().Add(-age),
		})
		require.NoError(t, err)
	}

	s := New(db, 90*24*time.Hour, testutil.TestLogger())
	n, err := s.PruneEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	remaining, err := q.CountEvents(ctx, store.CountEventsParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, remaining)
}
