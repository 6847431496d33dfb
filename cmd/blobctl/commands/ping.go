package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Ping returns the ping command, a health check for the configured store.
func Ping(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the store is reachable with the configured credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Ping(a.ctx(cmd)); err != nil {
				a.log.ErrorWith("ping failed", err, map[string]any{"provider": a.cfg.Provider})
				return err
			}
			a.log.With().Str("provider", a.cfg.Provider).Logger().Info("store reachable")
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
