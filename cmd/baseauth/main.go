package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "baseauth",
		Short:         "baseauth: vocabulary autosuggest service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "baseauth.yaml", "path to config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newLookupCmd(&configPath),
		newLabelCmd(&configPath),
		newCacheCmd(&configPath),
		newMCPCmd(&configPath),
		newShowroomCmd(&configPath),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
