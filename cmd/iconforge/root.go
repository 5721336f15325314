package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var bindFlag string
	var configFlag string

	ctx := newCommandContext(&bindFlag, &configFlag)

	rootCmd := &cobra.Command{
		Use:           "iconforge",
		Short:         "IconForge CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&bindFlag, "bind", "", "Address of the daemon control API (host:port)")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newItemsCommand(ctx))
	rootCmd.AddCommand(newWebsiteCommand(ctx))
	rootCmd.AddCommand(newGenerateCommand(ctx))
	rootCmd.AddCommand(newVersionCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
