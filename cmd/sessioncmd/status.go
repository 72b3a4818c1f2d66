// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sessioncmd

import (
	"time"

	"github.com/fitcron/cli/pkg/models"
	"github.com/fitcron/cli/pkg/session"
	"github.com/fitcron/cli/pkg/ux"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cached session and its expiry",
		Long: `The session status command reports whether a session file exists and, if
so, whether it has already expired. It never modifies the file.`,
		RunE: sessionStatus,
		Args: cobra.ExactArgs(0),
	}
}

func sessionStatus(*cobra.Command, []string) error {
	report, err := session.NewEvictor(app).Status()
	if err != nil {
		return err
	}
	switch report.State {
	case models.SessionAbsent:
		ux.Logger.PrintToUser("No session file at %s", app.GetSessionPath())
	case models.SessionExpired:
		ux.Logger.RedXToUser("Session expired at %s", report.ExpiresAt.Format(time.RFC3339))
	case models.SessionValid:
		ux.Logger.GreenCheckmarkToUser("Session valid until %s", report.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
