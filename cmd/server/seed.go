package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/calendar"
	"github.com/sakif/affirmations/internal/seed"
)

func newSeedCmd(configFile *string) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load starter categories and affirmations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.close()

			cal, err := calendar.Load(a.cfg.Timezone)
			if err != nil {
				return err
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := seed.New(store, cal, auth.NewPasswordService(), a.logger).Run(ctx, seed.Options{Demo: demo})
			if err != nil {
				return err
			}
			if res.DemoUserID != "" {
				a.logger.Info("demo login",
					slog.String("username", seed.DemoUsername),
					slog.String("password", seed.DemoPassword),
				)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "also create a demo user with moods and favorites")
	return cmd
}
