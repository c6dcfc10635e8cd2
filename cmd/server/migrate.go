package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.close()

			// Opening a store migrates it.
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("migrations applied")
			return store.Close()
		},
	}
}
