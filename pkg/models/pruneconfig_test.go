// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package models

import (
	"testing"
	"time"

	"github.com/fitcron/cli/pkg/constants"
	"github.com/stretchr/testify/require"
)

func TestPruneConfigValidate(t *testing.T) {
	require := require.New(t)

	cfg := PruneConfig{FileBasePath: "/data", FilesToPrune: []string{".json"}}
	require.NoError(cfg.Validate())

	// an explicit empty list is allowed and prunes nothing
	cfg = PruneConfig{FileBasePath: "/data", FilesToPrune: []string{}}
	require.NoError(cfg.Validate())

	cfg = PruneConfig{FilesToPrune: []string{".json"}}
	err := cfg.Validate()
	require.ErrorIs(err, constants.ErrInvalidConfig)
	require.Contains(err.Error(), "file_base_path")

	cfg = PruneConfig{FileBasePath: "/data"}
	err = cfg.Validate()
	require.ErrorIs(err, constants.ErrInvalidConfig)
	require.Contains(err.Error(), "files_to_prune")

	cfg = PruneConfig{FileBasePath: "/data", FilesToPrune: []string{".json", ""}}
	require.ErrorIs(cfg.Validate(), constants.ErrInvalidConfig)
}

func TestPruneConfigOffset(t *testing.T) {
	require := require.New(t)

	cfg := PruneConfig{}
	require.Equal(constants.DefaultUTCOffsetHours, cfg.Offset())

	zero := 0
	cfg = PruneConfig{UTCOffsetHours: &zero}
	require.Equal(0, cfg.Offset())

	plus3 := 3
	cfg = PruneConfig{UTCOffsetHours: &plus3}
	require.Equal(3, cfg.Offset())
}

func TestPruneConfigLocation(t *testing.T) {
	require := require.New(t)

	cfg := PruneConfig{}
	loc := cfg.Location()
	require.Equal("UTC-5", loc.String())

	// midnight in UTC-5 lands five hours after midnight UTC
	localMidnight := time.Date(2024, 3, 15, 0, 0, 0, 0, loc)
	utcMidnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(int64(5*60*60), localMidnight.Unix()-utcMidnight.Unix())

	plus3 := 3
	cfg = PruneConfig{UTCOffsetHours: &plus3}
	require.Equal("UTC+3", cfg.Location().String())
}

func TestPruneConfigShouldPrune(t *testing.T) {
	require := require.New(t)
	cfg := PruneConfig{FilesToPrune: []string{".json", ".csv"}}

	require.True(cfg.ShouldPrune(".json"))
	require.True(cfg.ShouldPrune(".csv"))

	// matching is exact and case sensitive
	require.False(cfg.ShouldPrune(".JSON"))
	require.False(cfg.ShouldPrune(".json5"))
	require.False(cfg.ShouldPrune("json"))
	require.False(cfg.ShouldPrune(""))
}
