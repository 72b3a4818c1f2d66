// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionExpiredAt(t *testing.T) {
	require := require.New(t)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	// expiring at this very second counts as expired
	s := Session{ExpiresAt: now.Unix()}
	require.True(s.ExpiredAt(now))

	// one second of validity left is still valid
	s = Session{ExpiresAt: now.Unix() + 1}
	require.False(s.ExpiredAt(now))

	s = Session{ExpiresAt: now.Unix() - 1}
	require.True(s.ExpiredAt(now))
}

func TestSessionExpiryTime(t *testing.T) {
	require := require.New(t)

	s := Session{ExpiresAt: 1710504000}
	require.Equal(int64(1710504000), s.ExpiryTime().Unix())
}
