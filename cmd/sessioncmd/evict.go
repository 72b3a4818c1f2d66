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

var force bool

func newEvictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evict",
		Short: "Delete the session file once it has expired",
		Long: `The session evict command deletes the cached session file once its
expires_at timestamp is due. A session expiring exactly now counts as
expired. A still-valid session is kept unless --force is given, and a
missing file is not an error.

A session file without a readable expires_at field aborts the command;
deleting a file whose state cannot be judged would hide real corruption.`,
		RunE: evictSession,
		Args: cobra.ExactArgs(0),
	}
	cmd.Flags().BoolVar(&force, "force", false, "evict the session even if it has not expired")

	return cmd
}

func evictSession(*cobra.Command, []string) error {
	report, err := session.NewEvictor(app).Evict(force)
	if err != nil {
		return err
	}
	switch {
	case report.Evicted:
		ux.Logger.GreenCheckmarkToUser("Evicted session at %s", app.GetSessionPath())
	case report.State == models.SessionAbsent:
		ux.Logger.PrintToUser("No session file at %s, nothing to do", app.GetSessionPath())
	default:
		ux.Logger.PrintToUser("Session still valid until %s, keeping it (use --force to evict anyway)",
			report.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
