// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sessioncmd

import (
	"fmt"

	"github.com/fitcron/cli/pkg/application"
	"github.com/spf13/cobra"
)

var app *application.Fitcron

func NewCmd(injectedApp *application.Fitcron) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or evict the cached Garmin session",
		Long: `The session command group manages the pipeline's cached Garmin API
session (.garmin_session.json in the working directory).

The collector caches its authenticated session in this file together with
an expires_at epoch timestamp. Once the expiry passes the file is dead
weight: the collector cannot refresh it and fails confusingly on the next
run. Evicting it forces a clean re-authentication instead.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newEvictCmd())

	return cmd
}
