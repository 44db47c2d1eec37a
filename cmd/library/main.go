// Command library is the command line front end of the library catalog.
//
// Configuration is read from the environment (and a .env file), see package config.
// With the default ADAPTER_TYPE=sqlite the catalog lives in the file SQLITE_PATH.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-views-go/config"
	"github.com/AntonStoeckl/library-views-go/internal/logging"
	"github.com/AntonStoeckl/library-views-go/internal/wiring"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	cfg         *config.Config
	logger      *logging.ZerologAdapter
	lib         *wiring.Library
	jsonOutput  bool
	autoMigrate bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "library",
		Short:         "Library catalog, membership, and circulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVar(&a.autoMigrate, "auto-migrate", true, "apply pending schema migrations on start")

	root.AddCommand(
		newBooksCommand(a),
		newUsersCommand(a),
		newBorrowsCommand(a),
		newSchemaCommand(a),
		newBenchCommand(a),
		newSeedCommand(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(cfg.LogLevel, cfg.IsDevelopment())

	if skipsLibrary(cmd) {
		return nil
	}

	lib, err := wiring.Open(cmd.Context(), cfg, wiring.Options{Logger: a.logger, Migrate: a.autoMigrate})
	if err != nil {
		return err
	}

	a.lib = lib

	return nil
}

func (a *app) close() error {
	if a.lib == nil {
		return nil
	}

	err := a.lib.Close()
	a.lib = nil

	return err
}

// skipsLibrary reports commands that manage the schema themselves.
func skipsLibrary(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoLibrary] == "true" {
			return true
		}
	}

	return false
}

const annotationNoLibrary = "no-library"
