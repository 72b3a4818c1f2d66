// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runcmd

import (
	"fmt"
	"time"

	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/collector"
	"github.com/fitcron/cli/pkg/models"
	"github.com/fitcron/cli/pkg/prune"
	"github.com/fitcron/cli/pkg/runfile"
	"github.com/fitcron/cli/pkg/session"
	"github.com/fitcron/cli/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app *application.Fitcron

	collectorPath string
)

func NewCmd(injectedApp *application.Fitcron) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "run [workdir]",
		Short: "Run the full maintenance cycle",
		Long: `The run command executes one full maintenance cycle against the pipeline
working directory:

  1. Evict the cached Garmin session if it has expired
  2. Prune exporter output files older than today's local midnight
  3. Invoke the collector binary for yesterday's metrics

The cycle holds a run lock (.fitcron.run) for its duration, so overlapping
cron invocations fail fast instead of racing each other. A lock left behind
by a dead process is replaced with a warning.

The session and prune steps are safe to repeat: a second run over the same
state changes nothing.`,
		RunE: runMaintenance,
		Args: cobra.MaximumNArgs(1),
	}
	cmd.Flags().StringVar(&collectorPath, "collector-path", "",
		"path to the collector binary (overrides config and FITCRON_COLLECTOR_PATH)")

	return cmd
}

func runMaintenance(*cobra.Command, []string) error {
	if err := runfile.Acquire(app); err != nil {
		return err
	}
	defer func() {
		_ = runfile.Release(app)
	}()

	start := time.Now()
	ux.Logger.PrintToUser("Starting maintenance run in %s", app.GetBaseDir())
	ux.Logger.PrintLineSeparator()

	tracker := ux.NewStepTracker(ux.Logger)

	tracker.Start("Checking Garmin session")
	report, err := session.NewEvictor(app).Evict(false)
	if err != nil {
		tracker.Failed(err.Error())
		return err
	}
	switch {
	case report.Evicted:
		tracker.Complete("expired session evicted")
	case report.State == models.SessionAbsent:
		tracker.Complete("no session file")
	default:
		tracker.Complete("session still valid")
	}

	tracker.Start("Pruning stale exporter output")
	cfg, err := app.LoadPruneConfig()
	if err != nil {
		tracker.Failed(err.Error())
		return err
	}
	result, err := prune.NewSweeper(app, cfg).Sweep()
	if err != nil {
		tracker.Failed(err.Error())
		return err
	}
	tracker.Complete(fmt.Sprintf("%d removed, %d files scanned", len(result.Removed), result.Scanned))
	if result.Failed > 0 {
		ux.Logger.RedXToUser("%d paths could not be processed, see %s for details",
			result.Failed, app.GetLogPath())
	}

	binPath, err := collector.ResolvePath(app, collectorPath)
	if err != nil {
		return err
	}
	inv := collector.NewInvoker(app, binPath, cfg.Location())
	res, err := inv.Run(inv.TargetDate())
	if err != nil {
		return err
	}

	ux.Logger.PrintLineSeparator()
	ux.Logger.GreenCheckmarkToUser("Maintenance run finished in %s (collector took %s)",
		time.Since(start).Round(time.Millisecond), res.Duration.Round(time.Millisecond))
	return nil
}
