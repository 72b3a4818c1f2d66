// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package models contains data structures shared across the CLI.
package models

import (
	"time"
)

// Session mirrors the session dotfile the Garmin collector maintains. The
// collector stores OAuth material alongside the expiry; only the expiry
// matters here, unknown fields pass through untouched.
type Session struct {
	ExpiresAt int64 `json:"expires_at"`
}

// ExpiryTime returns the expiry as a time.
func (s *Session) ExpiryTime() time.Time {
	return time.Unix(s.ExpiresAt, 0)
}

// ExpiredAt reports whether the session is expired at the given instant.
// A session expiring exactly now counts as expired.
func (s *Session) ExpiredAt(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}

// SessionState describes what the evictor found on disk.
type SessionState string

const (
	SessionAbsent  SessionState = "absent"
	SessionValid   SessionState = "valid"
	SessionExpired SessionState = "expired"
	SessionInvalid SessionState = "invalid"
)
