package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/calendar"
	"github.com/sakif/affirmations/internal/server"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
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
				return fmt.Errorf("opening store: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					a.logger.Error("closing store", slog.String("error", err.Error()))
				}
			}()

			resolver, err := a.mediaResolver(ctx)
			if err != nil {
				return fmt.Errorf("configuring media: %w", err)
			}

			srv, err := server.New(server.Config{
				Port:            a.cfg.Server.Port,
				CORSOrigins:     a.cfg.Server.Origins(),
				ShutdownTimeout: a.cfg.Server.ShutdownTimeoutDuration(),
				JanitorInterval: a.cfg.Auth.JanitorIntervalDuration(),
				JWTSecret:       a.cfg.Auth.JWTSecret,
				Session: auth.SessionConfig{
					TTL:          a.cfg.Auth.SessionTTLDuration(),
					SecureCookie: a.cfg.Auth.SecureCookie,
				},
			}, server.Deps{
				Store:    store,
				Media:    resolver,
				Calendar: cal,
			}, a.logger)
			if err != nil {
				return err
			}

			a.logger.Info("days counted in time zone", slog.String("zone", cal.Location().String()))
			return srv.Start(ctx)
		},
	}
}
