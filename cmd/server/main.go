// Command server runs the affirmations API.
//
//	server                 # same as "server serve"
//	server serve           # migrate, then serve HTTP until SIGINT/SIGTERM
//	server migrate         # apply schema migrations and exit
//	server seed [--demo]   # load the starter catalogue (and a demo account)
//
// Settings come from defaults, an optional --config file, a .env file and
// the environment, in increasing precedence.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "server",
		Short:         "Daily affirmations API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML, JSON or TOML config file")

	serve := newServeCmd(&configFile)
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCmd(&configFile), newSeedCmd(&configFile))
	return root
}
