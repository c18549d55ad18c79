// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the background jobs: publishing scheduled blog
// posts and pruning the event log.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sanctuary-web/sanctuary/internal/metrics"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/service"
	"github.com/sanctuary-web/sanctuary/internal/store"
)

// Job schedules.
const (
	PublishSchedule = "* * * * *"
	PruneSchedule   = "15 3 * * *"
)

// DefaultEventRetention is how long event log entries are kept.
const DefaultEventRetention = 90 * 24 * time.Hour

// jobTimeout bounds a single job run.
const jobTimeout = 2 * time.Minute

// Scheduler handles scheduled tasks like publishing blog posts.
type Scheduler struct {
	db        *sql.DB
	cron      *cron.Cron
	events    *service.EventService
	logger    *slog.Logger
	retention time.Duration
	now       func() time.Time
}

// New creates a new scheduler instance. A zero retention uses DefaultEventRetention.
func New(db *sql.DB, retention time.Duration, logger *slog.Logger) *Scheduler {
	if retention <= 0 {
		retention = DefaultEventRetention
	}
	return &Scheduler{
		db:        db,
		cron:      cron.New(),
		events:    service.NewEventService(db),
		logger:    logger,
		retention: retention,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context) (int, error)
	}{
		{"publish scheduled posts", PublishSchedule, s.PublishDuePosts},
		{"prune event log", PruneSchedule, s.PruneEvents},
	}

	for _, job := range jobs {
		_, err := s.cron.AddFunc(job.schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if _, err := job.run(ctx); err != nil {
				s.logger.Error("scheduled job failed", "job", job.name, "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PublishDuePosts publishes draft posts whose scheduled time has passed and
// returns how many were published.
func (s *Scheduler) PublishDuePosts(ctx context.Context) (int, error) {
	queries := store.New(s.db)
	now := s.now().UTC()

	posts, err := queries.ListScheduledBlogPostsDue(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(posts) == 0 {
		return 0, nil
	}

	s.logger.Info("processing scheduled posts", "count", len(posts))

	published := 0
	for _, post := range posts {
		n, err := queries.PublishScheduledBlogPost(ctx, store.PublishScheduledBlogPostParams{
			PublishedAt: now,
			UpdatedAt:   now,
			ID:          post.ID,
		})
		if err != nil {
			s.logger.Error("failed to publish scheduled post",
				"post_id", post.ID,
				"post_title", post.Title,
				"error", err,
			)
			continue
		}
		// Zero rows: the post changed status after it was listed.
		if n == 0 {
			continue
		}

		published++
		metrics.ScheduledPostsPublished.Inc()
		s.logger.Info("published scheduled post",
			"post_id", post.ID,
			"post_title", post.Title,
			"scheduled_at", post.ScheduledAt.Time,
		)
		_ = s.events.LogInfo(ctx, model.EventCategoryContent,
			"Blog post published automatically by scheduler: "+post.Title,
			nil, "", "", map[string]any{
				"post_id":      post.ID,
				"post_slug":    post.Slug,
				"scheduled_at": post.ScheduledAt.Time.Format(time.RFC3339),
				"published_at": now.Format(time.RFC3339),
			})
	}

	return published, nil
}

// PruneEvents deletes event log entries older than the retention period.
func (s *Scheduler) PruneEvents(ctx context.Context) (int, error) {
	deleted, err := s.events.DeleteOldEvents(ctx, s.retention)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("pruned event log", "deleted", deleted, "retention", s.retention)
	}
	return int(deleted), nil
}
