// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runfile guards against overlapping maintenance runs. The
// scheduler fires blindly; if a previous run is still collecting, the new
// one must back off instead of racing it over the same files.
package runfile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/constants"
	"github.com/fitcron/cli/pkg/utils"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"
)

// RunInfo is the contents of the run file, written when a maintenance run
// starts and removed when it finishes.
type RunInfo struct {
	Pid       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// Current reads the run file and reports whether the process it names is
// still alive. No run file means no active run.
func Current(app *application.Fitcron) (RunInfo, bool, error) {
	var rf RunInfo
	runFilePath := app.GetRunFilePath()
	if err := utils.ReadJSON(runFilePath, &rf); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RunInfo{}, false, nil
		}
		return RunInfo{}, false, err
	}
	if rf.Pid == 0 {
		return RunInfo{}, false, fmt.Errorf("no pid in run file at %s", runFilePath)
	}

	// get OS process list
	procs, err := process.Processes()
	if err != nil {
		return rf, false, err
	}

	p32 := int32(rf.Pid)
	for _, p := range procs {
		if p.Pid == p32 {
			return rf, true, nil
		}
	}
	return rf, false, nil
}

// Acquire writes this process into the run file, refusing while a live run
// holds it. A run file left behind by a dead or crashed process is replaced
// with a warning; it must not block the scheduler forever.
func Acquire(app *application.Fitcron) error {
	info, alive, err := Current(app)
	switch {
	case err != nil:
		app.Log.Warn("replacing unreadable run file", zap.Error(err))
	case alive:
		return fmt.Errorf("%w: pid %d since %s", constants.ErrAlreadyRunning, info.Pid, info.StartedAt.Format(time.RFC3339))
	case info.Pid != 0:
		app.Log.Warn("replacing stale run file",
			zap.Int("pid", info.Pid),
			zap.Time("started_at", info.StartedAt),
		)
	}

	rf := RunInfo{
		Pid:       os.Getpid(),
		StartedAt: time.Now(),
	}
	return utils.WriteJSON(app.GetRunFilePath(), &rf)
}

// Release removes the run file. Already gone is fine.
func Release(app *application.Fitcron) error {
	if err := os.Remove(app.GetRunFilePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
