// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package session evicts the Garmin collector's session dotfile once it
// has expired, forcing the collector through a fresh login on its next run.
package session

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/models"
	"go.uber.org/zap"
)

type Evictor struct {
	app *application.Fitcron
	now func() time.Time
}

func NewEvictor(app *application.Fitcron) *Evictor {
	return &Evictor{
		app: app,
		now: time.Now,
	}
}

// Report describes what the evictor found and did.
type Report struct {
	State     models.SessionState
	ExpiresAt time.Time
	Evicted   bool
}

// Status inspects the session file without touching it. A malformed file
// reports SessionInvalid together with the underlying error so callers can
// decide how loudly to complain.
func (e *Evictor) Status() (Report, error) {
	s, err := e.app.LoadSession()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Report{State: models.SessionAbsent}, nil
		}
		return Report{State: models.SessionInvalid}, err
	}

	r := Report{ExpiresAt: s.ExpiryTime()}
	if s.ExpiredAt(e.now()) {
		r.State = models.SessionExpired
	} else {
		r.State = models.SessionValid
	}
	return r, nil
}

// Evict removes the session file if it has expired. A session expiring at
// this very second counts as expired. An absent file is the expected case
// and a no-op; a malformed file is an error because deleting it blindly
// could destroy a live login. With force set the file goes regardless of
// expiry.
func (e *Evictor) Evict(force bool) (Report, error) {
	r, err := e.Status()
	if err != nil {
		return r, err
	}
	if r.State == models.SessionAbsent {
		return r, nil
	}

	if !force && r.State == models.SessionValid {
		return r, nil
	}

	if err := os.Remove(e.app.GetSessionPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return r, fmt.Errorf("failed to remove session file: %w", err)
	}
	r.Evicted = true
	e.app.Log.Info("session file evicted",
		zap.String("path", e.app.GetSessionPath()),
		zap.Time("expired_at", r.ExpiresAt),
		zap.Bool("forced", force && r.State == models.SessionValid),
	)
	return r, nil
}
