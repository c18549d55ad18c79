// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package summary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func TestSummarize(t *testing.T) {
	gen := &fakeGenerator{text: "  Join us for a joyful evening of worship!\n"}
	svc := NewWithGenerator(gen)

	got, err := svc.Summarize(context.Background(), EventDetails{
		Title:    "Night of Worship",
		Date:     "2025-03-14",
		Location: "Main Sanctuary",
	})
	require.NoError(t, err)
	assert.Equal(t, "Join us for a joyful evening of worship!", got)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Event: Night of Worship")
	assert.Contains(t, gen.prompts[0], "Location: Main Sanctuary")
	assert.NotContains(t, gen.prompts[0], "Time:")
}

func TestSummarize_Errors(t *testing.T) {
	_, err := NewWithGenerator(&fakeGenerator{}).Summarize(context.Background(), EventDetails{Title: "  "})
	assert.ErrorIs(t, err, ErrTitleRequired)

	unconfigured, err := New(context.Background(), Config{Provider: ProviderOpenAI})
	require.NoError(t, err)
	assert.False(t, unconfigured.Enabled())
	_, err = unconfigured.Summarize(context.Background(), EventDetails{Title: "Picnic"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	boom := errors.New("rate limited")
	_, err = NewWithGenerator(&fakeGenerator{err: boom}).Summarize(context.Background(), EventDetails{Title: "Picnic"})
	assert.ErrorIs(t, err, boom)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "llama", APIKey: "k"})
	assert.Error(t, err)
}

func TestOpenAI_Generate(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "Come celebrate with us."}}]
		}`))
	}))
	defer srv.Close()

	gen := NewOpenAI("test-key", "", option.WithBaseURL(srv.URL))
	text, err := gen.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Come celebrate with us.", text)
	assert.Equal(t, 1, calls)
}

func TestOpenAI_GenerateUpstreamError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	gen := NewOpenAI("test-key", "gpt-4o-mini", option.WithBaseURL(srv.URL))
	_, err := gen.Generate(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "no retries")
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.Error(t, err)
}
