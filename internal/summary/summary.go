// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package summary generates short natural-language event summaries with a
// hosted text-generation model.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

const maxSummaryTokens = 300

var (
	// ErrNotConfigured is returned when no provider API key is set.
	ErrNotConfigured = errors.New("summary: provider not configured")
	// ErrTitleRequired is returned when the event has no title.
	ErrTitleRequired = errors.New("summary: title is required")
)

// Generator sends a single prompt to a model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EventDetails describes the event to summarize.
type EventDetails struct {
	Title       string `json:"title" validate:"required,max=200"`
	Date        string `json:"date" validate:"max=100"`
	Time        string `json:"time" validate:"max=100"`
	Location    string `json:"location" validate:"max=200"`
	Description string `json:"description" validate:"max=4000"`
}

// Config selects the provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
}

// Service produces event summaries.
type Service struct {
	gen Generator
}

// New creates a Service for the configured provider. A missing API key
// yields a Service that reports ErrNotConfigured.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return &Service{}, nil
	}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		return &Service{gen: NewOpenAI(cfg.APIKey, cfg.Model)}, nil
	case ProviderGemini:
		g, err := NewGemini(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return &Service{gen: g}, nil
	default:
		return nil, fmt.Errorf("summary: unknown provider %q", cfg.Provider)
	}
}

// NewWithGenerator wraps an existing Generator.
func NewWithGenerator(gen Generator) *Service {
	return &Service{gen: gen}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.gen != nil
}

// Summarize fills the prompt template and invokes the model once. The model
// text is returned trimmed and otherwise verbatim.
func (s *Service) Summarize(ctx context.Context, d EventDetails) (string, error) {
	if strings.TrimSpace(d.Title) == "" {
		return "", ErrTitleRequired
	}
	if !s.Enabled() {
		return "", ErrNotConfigured
	}

	text, err := s.gen.Generate(ctx, BuildPrompt(d))
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// BuildPrompt renders the fixed summary prompt. Missing optional fields are
// left out.
func BuildPrompt(d EventDetails) string {
	var b strings.Builder
	b.WriteString("Write a warm, welcoming summary of 2-3 sentences for the following church event. ")
	b.WriteString("Encourage people to attend. Do not invent details that are not given. ")
	b.WriteString("Reply with the summary text only.\n\n")

	fmt.Fprintf(&b, "Event: %s\n", strings.TrimSpace(d.Title))
	for _, f := range []struct{ label, value string }{
		{"Date", d.Date},
		{"Time", d.Time},
		{"Location", d.Location},
		{"Description", d.Description},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.label, v)
		}
	}
	return b.String()
}
