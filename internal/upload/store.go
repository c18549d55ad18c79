// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package upload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/sanctuary-web/sanctuary/internal/imaging"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// URLPrefix is the public path stored files are served under.
const URLPrefix = "/uploads"

var (
	ErrUnknownEndpoint = errors.New("unknown upload endpoint")
	ErrNoFiles         = errors.New("no files uploaded")
	ErrTooManyFiles    = errors.New("too many files")
	ErrFileTooLarge    = errors.New("file too large")
	ErrTypeNotAllowed  = errors.New("file type not allowed")
	ErrInvalidImage    = errors.New("image could not be decoded")
)

// File is the client-facing result of a stored upload.
type File struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Store writes uploads to disk and records them in the database.
type Store struct {
	db   *sql.DB
	dir  string
	now  func() time.Time
	uuid func() string
}

// NewStore creates a store rooted at dir.
func NewStore(db *sql.DB, dir string) *Store {
	return &Store{
		db:   db,
		dir:  dir,
		now:  time.Now,
		uuid: uuid.NewString,
	}
}

// Dir returns the root directory files are written to.
func (s *Store) Dir() string {
	return s.dir
}

type pending struct {
	header   *multipart.FileHeader
	data     []byte
	mimeType string
	ext      string
}

// Save validates every file against the endpoint before writing any of them,
// so a rejected batch leaves nothing behind.
func (s *Store) Save(ctx context.Context, ep Endpoint, files []*multipart.FileHeader, userID int64) ([]File, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > ep.MaxFileCount {
		return nil, fmt.Errorf("%w: at most %d allowed", ErrTooManyFiles, ep.MaxFileCount)
	}

	batch := make([]pending, 0, len(files))
	for _, fh := range files {
		p, err := s.check(ep, fh)
		if err != nil {
			return nil, err
		}
		batch = append(batch, p)
	}

	dir := filepath.Join(s.dir, ep.Name)
	if err := util.ValidatePathWithinBase(s.dir, dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}

	var (
		written []string
		out     = make([]File, 0, len(batch))
	)
	cleanup := func() {
		for _, p := range written {
			_ = os.Remove(p)
		}
	}

	err := store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		for _, p := range batch {
			key := s.uuid()
			name := key + p.ext
			target := filepath.Join(dir, name)
			if err := os.WriteFile(target, p.data, 0o644); err != nil {
				return fmt.Errorf("writing upload: %w", err)
			}
			written = append(written, target)

			row, err := q.CreateUpload(ctx, store.CreateUploadParams{
				Key:          key,
				Endpoint:     ep.Name,
				OriginalName: filepath.Base(p.header.Filename),
				MimeType:     p.mimeType,
				Size:         int64(len(p.data)),
				URL:          path.Join(URLPrefix, ep.Name, name),
				UploadedBy:   util.NullInt64FromValue(userID),
				CreatedAt:    s.now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("recording upload: %w", err)
			}
			out = append(out, File{
				Key:  row.Key,
				URL:  row.URL,
				Name: row.OriginalName,
				Size: row.Size,
				Type: row.MimeType,
			})
		}
		return nil
	})
	if err != nil {
		cleanup()
		return nil, err
	}
	return out, nil
}

// check reads, sniffs and, for images, normalizes one file.
func (s *Store) check(ep Endpoint, fh *multipart.FileHeader) (pending, error) {
	if fh.Size > ep.MaxFileSize {
		return pending{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, fh.Filename, ep.MaxFileSize)
	}

	f, err := fh.Open()
	if err != nil {
		return pending{}, fmt.Errorf("opening %s: %w", fh.Filename, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, ep.MaxFileSize+1))
	if err != nil {
		return pending{}, fmt.Errorf("reading %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > ep.MaxFileSize {
		return pending{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, fh.Filename, ep.MaxFileSize)
	}

	mt := mimetype.Detect(data)
	mimeType := baseType(mt)
	if !ep.Allows(mimeType) {
		return pending{}, fmt.Errorf("%w: %s is %s", ErrTypeNotAllowed, fh.Filename, mimeType)
	}

	if imaging.IsImage(mimeType) {
		res, err := imaging.Normalize(data, mimeType, imaging.MaxDimension)
		if err != nil {
			return pending{}, fmt.Errorf("%w: %s: %v", ErrInvalidImage, fh.Filename, err)
		}
		data = res.Data
	}

	return pending{header: fh, data: data, mimeType: mimeType, ext: mt.Extension()}, nil
}

// baseType strips parameters such as "; charset=utf-8".
func baseType(mt *mimetype.MIME) string {
	base, _, _ := strings.Cut(mt.String(), ";")
	return strings.TrimSpace(base)
}

// Delete removes the file and its database row.
func (s *Store) Delete(ctx context.Context, key string) error {
	q := store.New(s.db)
	row, err := q.GetUploadByKey(ctx, key)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(URLPrefix, filepath.FromSlash(row.URL))
	if err != nil {
		return fmt.Errorf("resolving upload path: %w", err)
	}
	target := filepath.Join(s.dir, rel)
	if err := util.ValidatePathWithinBase(s.dir, target); err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing upload file: %w", err)
	}
	return q.DeleteUpload(ctx, key)
}
