// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package prune sweeps collector output the uploader has already consumed.
// Anything written before the most recent midnight (in the pipeline's fixed
// zone) whose extension is on the configured list gets removed.
package prune

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/models"
	"github.com/fitcron/cli/pkg/ux"
	"go.uber.org/zap"
)

type Sweeper struct {
	app *application.Fitcron
	cfg models.PruneConfig
	now func() time.Time
}

func NewSweeper(app *application.Fitcron, cfg models.PruneConfig) *Sweeper {
	return &Sweeper{
		app: app,
		cfg: cfg,
		now: time.Now,
	}
}

// Removal records one pruned file.
type Removal struct {
	Path    string
	ModTime time.Time
}

// Result summarizes a sweep.
type Result struct {
	Cutoff  time.Time
	Scanned int
	Removed []Removal
	Failed  int
}

// Cutoff returns midnight of the current day in the configured fixed zone.
// Files stamped exactly at midnight are from today and survive.
func (s *Sweeper) Cutoff() time.Time {
	loc := s.cfg.Location()
	now := s.now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// Sweep walks the data directory and removes every matching file strictly
// older than the cutoff. Removal is best effort: a file that cannot be
// deleted is logged and counted, never aborts the sweep. An unreadable
// subdirectory is skipped the same way; only the data directory itself
// being unreachable fails the sweep.
func (s *Sweeper) Sweep() (Result, error) {
	root := s.cfg.FileBasePath
	result := Result{Cutoff: s.Cutoff()}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.app.Log.Warn("skipping unreadable path during sweep",
				zap.String("path", path),
				zap.Error(err),
			)
			result.Failed++
			return nil
		}
		if d.IsDir() {
			return nil
		}

		result.Scanned++
		if !s.cfg.ShouldPrune(filepath.Ext(path)) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.app.Log.Warn("cannot stat file during sweep",
				zap.String("path", path),
				zap.Error(err),
			)
			result.Failed++
			return nil
		}
		if !info.ModTime().Before(result.Cutoff) {
			return nil
		}

		if err := os.Remove(path); err != nil {
			s.app.Log.Warn("failed to prune file",
				zap.String("path", path),
				zap.Error(err),
			)
			result.Failed++
			return nil
		}

		ux.Logger.PrintToUser("Pruned %s (modified %s)", path, info.ModTime().Format(time.RFC3339))
		s.app.Log.Info("pruned file",
			zap.String("path", path),
			zap.Time("mod_time", info.ModTime()),
		)
		result.Removed = append(result.Removed, Removal{Path: path, ModTime: info.ModTime()})
		return nil
	})

	return result, walkErr
}
