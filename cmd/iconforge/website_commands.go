package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iconforge/internal/api"
	"iconforge/internal/state"
)

func newWebsiteCommand(ctx *commandContext) *cobra.Command {
	websiteCmd := &cobra.Command{
		Use:   "website",
		Short: "Manage manually registered websites",
	}

	websiteCmd.AddCommand(newWebsiteListCommand(ctx))
	websiteCmd.AddCommand(newWebsiteAddCommand(ctx))
	websiteCmd.AddCommand(newWebsiteRemoveCommand(ctx))

	return websiteCmd
}

func newWebsiteListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered websites",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				resp, err := client.Websites(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Websites) == 0 {
					fmt.Fprintln(out, "No websites registered")
					return nil
				}
				fmt.Fprintln(out, renderWebsitesTable(resp.Websites))
				return nil
			})
		},
	}
}

func newWebsiteAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME URL",
		Short: "Register a website and queue icon generation for it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				resp, err := client.AddWebsite(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				site := resp.Website
				if site == nil {
					return fmt.Errorf("daemon returned no website entry")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered website %s (%s); icon generation queued\n", site.Name, site.URL)
				return nil
			})
		},
	}
}

func newWebsiteRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a registered website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				if err := client.RemoveWebsite(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed website %s\n", args[0])
				return nil
			})
		},
	}
}

func renderWebsitesTable(sites []*state.Website) string {
	headers := []string{"Name", "URL", "Status", "Icon"}
	rows := make([][]string, 0, len(sites))
	for _, site := range sites {
		if site == nil {
			continue
		}
		icon := site.IconPath
		if icon == "" {
			icon = "-"
		}
		rows = append(rows, []string{site.Name, site.URL, string(site.IconStatus), icon})
	}
	return renderTable(headers, rows)
}
