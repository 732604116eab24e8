// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package netprobe

import "strings"

// ParseHost extracts a (host, port) pair from a Git remote URL, handling the
// forms the Setup Wizard and Network Probe both need to resolve:
//
//	ssh://git@github.com:22/me/vault.git  -> github.com, 22
//	git@github.com:me/vault.git           -> github.com, 22  (scp-like syntax)
//	https://github.com/me/vault.git       -> github.com, 443
//	github.com:me/vault.git               -> github.com, 22
//
// This folds in the "SSH host alias detection" supplemental feature
// recovered from original_source/: the original resolves more URL shapes
// than a bare hostname split.
func ParseHost(remoteURL string) (host string, port string) {
	url := strings.TrimSpace(remoteURL)

	switch {
	case strings.HasPrefix(url, "ssh://"):
		rest := strings.TrimPrefix(url, "ssh://")
		rest = stripUserinfo(rest)
		hostPort := firstSegment(rest, '/')
		return splitHostPort(hostPort, "22")

	case strings.HasPrefix(url, "https://"):
		rest := strings.TrimPrefix(url, "https://")
		rest = stripUserinfo(rest)
		hostPort := firstSegment(rest, '/')
		return splitHostPort(hostPort, "443")

	case strings.HasPrefix(url, "http://"):
		rest := strings.TrimPrefix(url, "http://")
		rest = stripUserinfo(rest)
		hostPort := firstSegment(rest, '/')
		return splitHostPort(hostPort, "80")

	case strings.Contains(url, "@") && strings.Contains(url, ":"):
		// scp-like: user@host:path or user@host:port/path is non-standard,
		// git's scp syntax never carries an explicit port after the colon —
		// the colon always introduces the path.
		rest := stripUserinfo(url)
		idx := strings.Index(rest, ":")
		return rest[:idx], "22"

	case strings.Contains(url, ":") && !strings.Contains(url[:strings.Index(url, ":")], "/"):
		// host:path with no user, e.g. github.com:me/vault.git
		idx := strings.Index(url, ":")
		return url[:idx], "22"

	default:
		return url, "22"
	}
}

func stripUserinfo(s string) string {
	if idx := strings.Index(s, "@"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

func firstSegment(s string, sep byte) string {
	if idx := strings.IndexByte(s, sep); idx >= 0 {
		return s[:idx]
	}
	return s
}

func splitHostPort(hostPort, defaultPort string) (string, string) {
	if idx := strings.LastIndex(hostPort, ":"); idx >= 0 {
		return hostPort[:idx], hostPort[idx+1:]
	}
	return hostPort, defaultPort
}
