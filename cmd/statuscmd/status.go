// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package statuscmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/collector"
	"github.com/fitcron/cli/pkg/constants"
	"github.com/fitcron/cli/pkg/models"
	"github.com/fitcron/cli/pkg/runfile"
	"github.com/fitcron/cli/pkg/session"
	"github.com/fitcron/cli/pkg/utils"
	"github.com/fitcron/cli/pkg/ux"
	"github.com/spf13/cobra"
)

var app *application.Fitcron

func NewCmd(injectedApp *application.Fitcron) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "status [workdir]",
		Short: "Show pipeline state without changing anything",
		Long: `The status command reports the state a maintenance run would act on: the
cached session and its expiry, the prune configuration and how much
tracked output has accumulated per extension, where the collector binary
resolves to, and whether another fitcron process currently holds the run
lock.

It is strictly read-only.`,
		RunE: runStatus,
		Args: cobra.MaximumNArgs(1),
	}

	return cmd
}

func runStatus(*cobra.Command, []string) error {
	table := ux.DefaultTable(fmt.Sprintf("Pipeline at %s", app.GetBaseDir()), []string{"Component", "State"})

	_ = table.Append([]string{"Session", sessionCell()})

	cfg, err := app.LoadPruneConfig()
	switch {
	case errors.Is(err, os.ErrNotExist):
		_ = table.Append([]string{"Prune config", fmt.Sprintf("missing (%s)", constants.PruneConfigPath)})
	case err != nil:
		_ = table.Append([]string{"Prune config", fmt.Sprintf("invalid: %v", err)})
	default:
		_ = table.Append([]string{"Prune config", fmt.Sprintf("%s, UTC%+d", cfg.FileBasePath, cfg.Offset())})
		perExt, files, size := countTracked(cfg)
		for _, ext := range cfg.FilesToPrune {
			_ = table.Append([]string{"Output " + ext, fmt.Sprintf("%d files", perExt[ext])})
		}
		_ = table.Append([]string{"Output total", fmt.Sprintf("%d files, %s bytes",
			files, ux.ConvertToStringWithThousandSeparator(size))})
	}

	_ = table.Append([]string{"Collector", collectorCell()})
	_ = table.Append([]string{"Run lock", lockCell()})
	_ = table.Append([]string{"Config file", configCell()})

	return table.Render()
}

func configCell() string {
	if !app.Conf.ConfigFileExists() {
		return "none (defaults)"
	}
	return app.Conf.GetConfigPath()
}

func sessionCell() string {
	report, err := session.NewEvictor(app).Status()
	switch {
	case errors.Is(err, constants.ErrInvalidSession):
		return "malformed (expires_at unreadable)"
	case err != nil:
		return fmt.Sprintf("unreadable: %v", err)
	case report.State == models.SessionAbsent:
		return "absent"
	case report.State == models.SessionExpired:
		return fmt.Sprintf("expired at %s", report.ExpiresAt.Format(time.RFC3339))
	default:
		return fmt.Sprintf("valid until %s", report.ExpiresAt.Format(time.RFC3339))
	}
}

// countTracked totals the files the pruner tracks, regardless of age.
// Status never fails on a half-readable tree, unreadable entries are
// simply not counted.
func countTracked(cfg models.PruneConfig) (map[string]int, int, uint64) {
	perExt := map[string]int{}
	var files int
	var size uint64
	_ = filepath.WalkDir(cfg.FileBasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		ext := filepath.Ext(path)
		if d.IsDir() || !cfg.ShouldPrune(ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		perExt[ext]++
		files++
		size += uint64(info.Size())
		return nil
	})
	return perExt, files, size
}

func collectorCell() string {
	path, err := collector.ResolvePath(app, "")
	if err != nil {
		return fmt.Sprintf("not found (default %s)", strings.TrimPrefix(app.GetCollectorDefaultPath(), app.GetBaseDir()+string(os.PathSeparator)))
	}
	if !utils.IsExecutable(path) {
		return fmt.Sprintf("%s (not executable)", path)
	}
	return path
}

func lockCell() string {
	info, alive, err := runfile.Current(app)
	switch {
	case err != nil:
		return fmt.Sprintf("unreadable run file at %s", app.GetRunFilePath())
	case info.Pid == 0:
		return "free"
	case alive:
		return fmt.Sprintf("held by pid %d since %s", info.Pid, info.StartedAt.Format(time.RFC3339))
	default:
		return fmt.Sprintf("stale (pid %d is gone)", info.Pid)
	}
}
