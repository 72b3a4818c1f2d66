// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package collector shells out to the external garmin binary that pulls
// yesterday's metrics from Garmin Connect.
package collector

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/constants"
	"github.com/fitcron/cli/pkg/utils"
	"github.com/fitcron/cli/pkg/ux"
	"go.uber.org/zap"
)

// metricFlags is the exact flag vector the collector expects, one date
// flag per metric. Order is part of the contract; the collector's own
// logs and the cron mail diff cleanly only when it never changes.
var metricFlags = []string{
	"--summary_date",
	"--weight_date",
	"--sleep_date",
	"--resting_heart_date",
	"--monitor_date",
	"--hydration_date",
	"--activity_date",
}

// ResolvePath locates the collector binary. Priority: explicit flag, then
// config/environment, then the build output under the working directory.
func ResolvePath(app *application.Fitcron, flagPath string) (string, error) {
	// Priority 1: User-provided path
	if flagPath != "" {
		if !utils.FileExists(flagPath) {
			return "", fmt.Errorf("collector not found at: %s", flagPath)
		}
		return flagPath, nil
	}

	// Priority 2: Environment/config
	if configPath := app.Conf.GetConfigStringValue(constants.ConfigCollectorPathKey); configPath != "" {
		configPath = utils.ExpandHome(configPath)
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(app.GetBaseDir(), configPath)
		}
		if utils.FileExists(configPath) {
			return configPath, nil
		}
	}

	// Priority 3: Build output under the working directory
	defaultPath := app.GetCollectorDefaultPath()
	if utils.FileExists(defaultPath) {
		return defaultPath, nil
	}

	return "", fmt.Errorf("collector not found at %s. Set --collector-path or %s", defaultPath, constants.CollectorPathEnvVar)
}

// Invoker runs the collector synchronously for one target date.
type Invoker struct {
	app  *application.Fitcron
	path string
	loc  *time.Location
	now  func() time.Time
}

func NewInvoker(app *application.Fitcron, path string, loc *time.Location) *Invoker {
	return &Invoker{
		app:  app,
		path: path,
		loc:  loc,
		now:  time.Now,
	}
}

// TargetDate is yesterday in the pipeline's fixed zone, the day whose data
// is complete.
func (inv *Invoker) TargetDate() string {
	return inv.now().In(inv.loc).AddDate(0, 0, -1).Format(constants.DateFormat)
}

// Args builds the flag vector, every metric pinned to the same date.
func (inv *Invoker) Args(date string) []string {
	args := make([]string, 0, len(metricFlags)*2)
	for _, flag := range metricFlags {
		args = append(args, flag, date)
	}
	return args
}

// CommandLine renders the full invocation for display.
func (inv *Invoker) CommandLine(date string) string {
	return strings.Join(append([]string{inv.path}, inv.Args(date)...), " ")
}

// Result captures one collector run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Run prints the command line, executes the collector from the working
// directory, prints its captured stdout, and reports failure if it exited
// non-zero. No timeout: a Garmin Connect backfill can legitimately take
// a long while.
func (inv *Invoker) Run(date string) (Result, error) {
	ux.Logger.PrintToUser("Executing command:\n\n%s\n", inv.CommandLine(date))

	cmd := exec.Command(inv.path, inv.Args(date)...)
	cmd.Dir = inv.app.GetBaseDir()
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	// The collector's own output is part of the run record, mirror it to
	// the user before deciding whether the run failed.
	ux.Logger.PrintToUser("%s", result.Stdout)

	inv.app.Log.Info("collector finished",
		zap.String("binary", inv.path),
		zap.String("target_date", date),
		zap.Duration("duration", result.Duration),
		zap.String("stdout", utils.RemoveLineCleanChars(result.Stdout)),
		zap.String("stderr", utils.RemoveLineCleanChars(result.Stderr)),
	)

	if runErr != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("%w: %s exited with code %d", constants.ErrCollectorFailed, filepath.Base(inv.path), result.ExitCode)
		}
		return result, fmt.Errorf("%w: %v", constants.ErrCollectorFailed, runErr)
	}

	return result, nil
}
