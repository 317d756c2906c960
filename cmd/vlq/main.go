package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

// errResultFailed signals that the query envelope was printed and carried an
// error status. main turns it into a non-zero exit without re-printing.
var errResultFailed = errors.New("query failed")

type cmdGlobal struct {
	flagConfig string
	cfg        appConfig
}

func newRootCmd() *cobra.Command {
	global := &cmdGlobal{}

	root := &cobra.Command{
		Use:           "vlq",
		Short:         "Query client for VictoriaLogs-style backends",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := loadConfig(global.flagConfig)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			global.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&global.flagConfig, "config", "", "config file (default is $HOME/.config/vlq/config.yml)")

	query := cmdQuery{global: global}
	root.AddCommand(query.Command())

	serve := cmdServe{global: global}
	root.AddCommand(serve.Command())

	export := cmdExport{global: global}
	root.AddCommand(export.Command())

	ver := cmdVersion{}
	root.AddCommand(ver.Command())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errResultFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
