// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prune

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fitcron/cli/internal/testutils"
	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/models"
	"github.com/stretchr/testify/require"
)

// 15:30 UTC is 10:30 in the default UTC-5 zone, so the cutoff is
// 2024-03-15T00:00:00-05:00.
var testNow = time.Date(2024, 3, 15, 15, 30, 0, 0, time.UTC)

func newTestSweeper(t *testing.T, app *application.Fitcron, offset *int, exts ...string) *Sweeper {
	t.Helper()
	dataDir := filepath.Join(app.GetBaseDir(), "output")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	cfg := models.PruneConfig{
		FileBasePath:   dataDir,
		FilesToPrune:   exts,
		UTCOffsetHours: offset,
	}
	s := NewSweeper(app, cfg)
	s.now = func() time.Time { return testNow }
	return s
}

func writeAged(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestSweepCutoffBoundary(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)
	s := newTestSweeper(t, app, nil, ".json")

	cutoff := s.Cutoff()
	require.Equal(time.Date(2024, 3, 15, 5, 0, 0, 0, time.UTC).Unix(), cutoff.Unix())

	dataDir := s.cfg.FileBasePath
	oldFile := filepath.Join(dataDir, "old.json")
	exactFile := filepath.Join(dataDir, "exact.json")
	freshFile := filepath.Join(dataDir, "fresh.json")
	writeAged(t, oldFile, cutoff.Add(-time.Second))
	writeAged(t, exactFile, cutoff)
	writeAged(t, freshFile, cutoff.Add(time.Hour))

	result, err := s.Sweep()
	require.NoError(err)
	require.Len(result.Removed, 1)
	require.Equal(oldFile, result.Removed[0].Path)
	require.Zero(result.Failed)

	require.NoFileExists(oldFile)

	// strictly older than midnight: exactly-at-midnight survives
	require.FileExists(exactFile)
	require.FileExists(freshFile)
}

func TestSweepExtensionPrecision(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)
	s := newTestSweeper(t, app, nil, ".json")

	dataDir := s.cfg.FileBasePath
	stale := s.Cutoff().Add(-time.Hour)

	pruned := filepath.Join(dataDir, "metrics.json")
	nested := filepath.Join(dataDir, "2024", "03", "sleep.json")
	upper := filepath.Join(dataDir, "metrics.JSON")
	longer := filepath.Join(dataDir, "metrics.json5")
	other := filepath.Join(dataDir, "metrics.txt")
	bare := filepath.Join(dataDir, "json")
	for _, p := range []string{pruned, nested, upper, longer, other, bare} {
		writeAged(t, p, stale)
	}

	result, err := s.Sweep()
	require.NoError(err)
	require.Len(result.Removed, 2)
	require.NoFileExists(pruned)
	require.NoFileExists(nested)

	require.FileExists(upper)
	require.FileExists(longer)
	require.FileExists(other)
	require.FileExists(bare)
}

func TestSweepIdempotent(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)
	s := newTestSweeper(t, app, nil, ".json", ".csv")

	dataDir := s.cfg.FileBasePath
	stale := s.Cutoff().Add(-time.Hour)
	writeAged(t, filepath.Join(dataDir, "a.json"), stale)
	writeAged(t, filepath.Join(dataDir, "b.csv"), stale)
	writeAged(t, filepath.Join(dataDir, "keep.json"), s.Cutoff())

	first, err := s.Sweep()
	require.NoError(err)
	require.Len(first.Removed, 2)

	second, err := s.Sweep()
	require.NoError(err)
	require.Empty(second.Removed)
	require.Zero(second.Failed)
	require.FileExists(filepath.Join(dataDir, "keep.json"))
}

func TestSweepOffsetMovesCutoff(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)

	// modified 02:00 UTC on the 15th: past midnight UTC, before midnight
	// in UTC-5
	mtime := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)

	zero := 0
	utcSweeper := newTestSweeper(t, app, &zero, ".json")
	target := filepath.Join(utcSweeper.cfg.FileBasePath, "border.json")
	writeAged(t, target, mtime)

	result, err := utcSweeper.Sweep()
	require.NoError(err)
	require.Empty(result.Removed)
	require.FileExists(target)

	defaultSweeper := newTestSweeper(t, app, nil, ".json")
	result, err = defaultSweeper.Sweep()
	require.NoError(err)
	require.Len(result.Removed, 1)
	require.NoFileExists(target)
}

func TestSweepMissingDataDirFails(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)

	cfg := models.PruneConfig{
		FileBasePath: filepath.Join(app.GetBaseDir(), "does-not-exist"),
		FilesToPrune: []string{".json"},
	}
	s := NewSweeper(app, cfg)
	s.now = func() time.Time { return testNow }

	_, err := s.Sweep()
	require.Error(err)
}
