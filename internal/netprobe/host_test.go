// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package netprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHost(t *testing.T) {
	cases := []struct {
		url      string
		wantHost string
		wantPort string
	}{
		{"ssh://git@github.com:22/me/vault.git", "github.com", "22"},
		{"git@github.com:me/vault.git", "github.com", "22"},
		{"https://github.com/me/vault.git", "github.com", "443"},
		{"github.com:me/vault.git", "github.com", "22"},
		{"ssh://git@gitlab.example.com/me/vault.git", "gitlab.example.com", "22"},
	}

	for _, c := range cases {
		t.Run(c.url, func(t *testing.T) {
			host, port := ParseHost(c.url)
			assert.Equal(t, c.wantHost, host)
			assert.Equal(t, c.wantPort, port)
		})
	}
}

func TestProbeOfflineOnUnreachableHost(t *testing.T) {
	p := New(0)
	ok := p.Online(t.Context(), "ssh://git@198.51.100.1:65535/me/vault.git")
	assert.False(t, ok)
}
