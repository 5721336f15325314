package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iconforge/internal/api"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var website bool

	cmd := &cobra.Command{
		Use:   "generate NAME",
		Short: "Queue icon generation for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				queued, err := client.Enqueue(cmd.Context(), args[0], website)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if queued {
					fmt.Fprintf(out, "Queued icon generation for %s\n", args[0])
				} else {
					fmt.Fprintf(out, "Icon generation for %s is already queued\n", args[0])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&website, "website", false, "Treat the item as a registered website")
	return cmd
}

func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the daemon's change counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				version, err := client.Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			})
		},
	}
}
