// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prunecmd

import (
	"time"

	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/prune"
	"github.com/fitcron/cli/pkg/ux"
	"github.com/spf13/cobra"
)

var app *application.Fitcron

func NewCmd(injectedApp *application.Fitcron) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "prune [workdir]",
		Short: "Delete stale exporter output files",
		Long: `The prune command deletes exporter output files that predate today's
midnight in the pipeline's reporting timezone.

Which files are candidates comes from config/influxdb_config.json in the
working directory: file_base_path names the output tree and files_to_prune
lists the exact file extensions to consider. Matching is case sensitive
and includes the dot, so ".json" matches neither ".JSON" nor ".json5".

A file modified at exactly midnight survives; one second older is removed.
Files that cannot be deleted are logged and skipped, and running prune
twice in a row removes nothing new.`,
		RunE: runPrune,
		Args: cobra.MaximumNArgs(1),
	}

	return cmd
}

func runPrune(*cobra.Command, []string) error {
	cfg, err := app.LoadPruneConfig()
	if err != nil {
		return err
	}

	sweeper := prune.NewSweeper(app, cfg)
	ux.Logger.PrintToUser("Pruning %s for files older than %s",
		cfg.FileBasePath, sweeper.Cutoff().Format(time.RFC3339))

	result, err := sweeper.Sweep()
	if err != nil {
		return err
	}

	if len(result.Removed) == 0 {
		ux.Logger.PrintToUser("Nothing to prune (%d files scanned)", result.Scanned)
	} else {
		ux.Logger.GreenCheckmarkToUser("Pruned %d of %d files scanned", len(result.Removed), result.Scanned)
	}
	if result.Failed > 0 {
		ux.Logger.RedXToUser("%d paths could not be processed, see %s for details",
			result.Failed, app.GetLogPath())
	}
	return nil
}
