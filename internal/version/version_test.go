// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "full build info",
			info: Info{Version: "v1.0.0", GitCommit: "abc1234", BuildTime: "2025-01-30T12:00:00Z"},
			want: "sanctuary v1.0.0 (commit: abc1234, built: 2025-01-30T12:00:00Z)",
		},
		{
			name: "no build time",
			info: Info{Version: "v1.0.0", GitCommit: "abc1234"},
			want: "sanctuary v1.0.0 (commit: abc1234)",
		},
		{
			name: "zero value",
			info: Info{},
			want: "sanctuary dev (commit: unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInfoShort(t *testing.T) {
	if got := (Info{}).Short(); got != "dev" {
		t.Errorf("zero value Short() = %q, want %q", got, "dev")
	}
	if got := (Info{Version: "v2.3.4"}).Short(); got != "v2.3.4" {
		t.Errorf("Short() = %q, want %q", got, "v2.3.4")
	}
}
