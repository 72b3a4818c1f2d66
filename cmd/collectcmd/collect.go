// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collectcmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/collector"
	"github.com/fitcron/cli/pkg/constants"
	"github.com/fitcron/cli/pkg/models"
	"github.com/fitcron/cli/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app *application.Fitcron

	collectorPath string
	dateFlag      string
)

func NewCmd(injectedApp *application.Fitcron) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "collect [workdir]",
		Short: "Invoke the collector for yesterday's metrics",
		Long: `The collect command runs the pipeline's collector binary once, passing
the same target date to every metric flag:

  --summary_date --weight_date --sleep_date --resting_heart_date
  --monitor_date --hydration_date --activity_date

The date defaults to yesterday in the pipeline's reporting timezone and
can be overridden with --date for backfills. The full command line is
printed before execution and the collector's stdout is echoed afterwards,
so cron mail captures both. A non-zero collector exit fails the command.`,
		RunE: runCollect,
		Args: cobra.MaximumNArgs(1),
	}
	cmd.Flags().StringVar(&collectorPath, "collector-path", "",
		"path to the collector binary (overrides config and FITCRON_COLLECTOR_PATH)")
	cmd.Flags().StringVar(&dateFlag, "date", "", "target date as YYYY-MM-DD (defaults to yesterday)")

	return cmd
}

// reportingLocation loads the pipeline timezone from the uploader config.
// Collecting without that config is legitimate (a fresh checkout has no
// output to prune yet), so absence falls back to the default offset, while
// a corrupt config stays fatal.
func reportingLocation() (*time.Location, error) {
	cfg, err := app.LoadPruneConfig()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			def := models.PruneConfig{}
			return def.Location(), nil
		}
		return nil, err
	}
	return cfg.Location(), nil
}

func runCollect(*cobra.Command, []string) error {
	loc, err := reportingLocation()
	if err != nil {
		return err
	}

	binPath, err := collector.ResolvePath(app, collectorPath)
	if err != nil {
		return err
	}

	inv := collector.NewInvoker(app, binPath, loc)
	date := inv.TargetDate()
	if dateFlag != "" {
		if _, err := time.Parse(constants.DateFormat, dateFlag); err != nil {
			return fmt.Errorf("invalid --date %s, expected YYYY-MM-DD: %w", dateFlag, err)
		}
		date = dateFlag
	}

	res, err := inv.Run(date)
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Collector finished in %s", res.Duration.Round(time.Millisecond))
	return nil
}
