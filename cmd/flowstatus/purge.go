package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired status records and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := rt.service.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			rt.logger.Info("purged expired statuses", zap.Int64("deleted", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired status record(s)\n", n)
			return nil
		},
	}
}
