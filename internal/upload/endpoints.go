// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload stores files posted to named upload endpoints, each with its
// own size, count, type and role limits.
package upload

import (
	"strings"

	"github.com/sanctuary-web/sanctuary/internal/model"
)

const (
	kb = 1 << 10
	mb = 1 << 20
)

// Endpoint describes one named upload route.
type Endpoint struct {
	Name         string   `json:"name"`
	MaxFileSize  int64    `json:"maxFileSize"`
	MaxFileCount int      `json:"maxFileCount"`
	AllowedTypes []string `json:"allowedTypes"` // MIME types or "type/" prefixes
	MinRole      string   `json:"minRole"`
}

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var documentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"image/jpeg",
	"image/png",
}

// Endpoints lists every upload endpoint by name.
var Endpoints = map[string]Endpoint{
	"blogImage":     imageEndpoint("blogImage", 4*mb),
	"staffImage":    imageEndpoint("staffImage", 4*mb),
	"ministryImage": imageEndpoint("ministryImage", 4*mb),
	"slideImage":    imageEndpoint("slideImage", 8*mb),
	"seriesImage":   imageEndpoint("seriesImage", 4*mb),
	"partnerImage":  imageEndpoint("partnerImage", 4*mb),
	"document": {
		Name:         "document",
		MaxFileSize:  16 * mb,
		MaxFileCount: 5,
		AllowedTypes: documentTypes,
		MinRole:      model.RoleAdmin,
	},
}

func imageEndpoint(name string, maxSize int64) Endpoint {
	return Endpoint{
		Name:         name,
		MaxFileSize:  maxSize,
		MaxFileCount: 1,
		AllowedTypes: imageTypes,
		MinRole:      model.RoleEditor,
	}
}

// Lookup returns the endpoint with the given name.
func Lookup(name string) (Endpoint, bool) {
	ep, ok := Endpoints[name]
	return ep, ok
}

// Allows reports whether mimeType may be uploaded to the endpoint.
func (e Endpoint) Allows(mimeType string) bool {
	for _, t := range e.AllowedTypes {
		if strings.HasSuffix(t, "/") {
			if strings.HasPrefix(mimeType, t) {
				return true
			}
			continue
		}
		if mimeType == t {
			return true
		}
	}
	return false
}

// MaxRequestSize is the largest multipart body the endpoint accepts,
// with headroom for multipart framing.
func (e Endpoint) MaxRequestSize() int64 {
	return e.MaxFileSize*int64(e.MaxFileCount) + 64*kb
}
