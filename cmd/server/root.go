package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront backend: catalog, addresses, orders and metrics over HTTP",
		SilenceUsage:  true,
	}
	serve := newServeCmd()
	root.AddCommand(serve, newConsumeOrdersCmd())
	// running the binary without a subcommand starts the server
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}
