// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collector

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/fitcron/cli/internal/testutils"
	"github.com/fitcron/cli/pkg/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func writeFakeCollector(t *testing.T, path, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake collector needs a POSIX shell")
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
}

func TestTargetDate(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)
	loc := time.FixedZone("UTC-5", -5*60*60)

	inv := NewInvoker(app, "garmin", loc)
	inv.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	require.Equal("2024-03-14", inv.TargetDate())

	// 03:00 UTC is still the previous evening in UTC-5
	inv.now = func() time.Time { return time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC) }
	require.Equal("2024-03-13", inv.TargetDate())
}

func TestArgsOrdering(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)
	inv := NewInvoker(app, "garmin", time.UTC)

	want := []string{
		"--summary_date", "2024-03-14",
		"--weight_date", "2024-03-14",
		"--sleep_date", "2024-03-14",
		"--resting_heart_date", "2024-03-14",
		"--monitor_date", "2024-03-14",
		"--hydration_date", "2024-03-14",
		"--activity_date", "2024-03-14",
	}
	require.Equal(want, inv.Args("2024-03-14"))

	require.Equal(
		"garmin --summary_date 2024-03-14 --weight_date 2024-03-14 --sleep_date 2024-03-14"+
			" --resting_heart_date 2024-03-14 --monitor_date 2024-03-14 --hydration_date 2024-03-14"+
			" --activity_date 2024-03-14",
		inv.CommandLine("2024-03-14"),
	)
}

func TestRunCapturesOutput(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)

	bin := filepath.Join(app.GetBaseDir(), "garmin")
	writeFakeCollector(t, bin, `echo "collected $@"`)

	res, err := NewInvoker(app, bin, time.UTC).Run("2024-03-14")
	require.NoError(err)
	require.Equal(0, res.ExitCode)
	require.Contains(res.Stdout, "--summary_date 2024-03-14")
	require.Contains(res.Stdout, "--activity_date 2024-03-14")
}

func TestRunExecutesFromBaseDir(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)

	bin := filepath.Join(app.GetBaseDir(), "garmin")
	writeFakeCollector(t, bin, "pwd")

	res, err := NewInvoker(app, bin, time.UTC).Run("2024-03-14")
	require.NoError(err)

	want, err := filepath.EvalSymlinks(app.GetBaseDir())
	require.NoError(err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(res.Stdout))
	require.NoError(err)
	require.Equal(want, got)
}

func TestRunPropagatesExitCode(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)

	bin := filepath.Join(app.GetBaseDir(), "garmin")
	writeFakeCollector(t, bin, "echo partial output\nexit 3")

	res, err := NewInvoker(app, bin, time.UTC).Run("2024-03-14")
	require.ErrorIs(err, constants.ErrCollectorFailed)
	require.Equal(3, res.ExitCode)

	// output emitted before the failure is still captured
	require.Contains(res.Stdout, "partial output")
}

func TestRunMissingBinary(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)

	inv := NewInvoker(app, filepath.Join(app.GetBaseDir(), "no-such-binary"), time.UTC)
	res, err := inv.Run("2024-03-14")
	require.ErrorIs(err, constants.ErrCollectorFailed)
	require.Equal(-1, res.ExitCode)
}

func TestResolvePath(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)

	// nothing anywhere
	_, err := ResolvePath(app, "")
	require.Error(err)
	require.Contains(err.Error(), constants.CollectorPathEnvVar)

	// an explicit path must exist
	_, err = ResolvePath(app, filepath.Join(app.GetBaseDir(), "missing"))
	require.Error(err)

	// the in-place build output is the fallback
	def := app.GetCollectorDefaultPath()
	writeFakeCollector(t, def, "true")
	got, err := ResolvePath(app, "")
	require.NoError(err)
	require.Equal(def, got)

	// an explicit path wins over it
	alt := filepath.Join(app.GetBaseDir(), "alt-garmin")
	writeFakeCollector(t, alt, "true")
	got, err = ResolvePath(app, alt)
	require.NoError(err)
	require.Equal(alt, got)
}

func TestResolvePathFromConfig(t *testing.T) {
	require := require.New(t)
	app := testutils.SetupTestInTempDir(t)
	t.Cleanup(viper.Reset)

	// a relative configured path resolves against the base dir
	rel := filepath.Join("bin", "garmin")
	abs := filepath.Join(app.GetBaseDir(), rel)
	writeFakeCollector(t, abs, "true")

	viper.Set(constants.ConfigCollectorPathKey, rel)
	got, err := ResolvePath(app, "")
	require.NoError(err)
	require.Equal(abs, got)
}
