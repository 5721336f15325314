package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"iconforge/internal/api"
	"iconforge/internal/state"
)

const descriptionPreviewLimit = 60

func newItemsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List visible items and their icon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				resp, err := client.Items(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					fmt.Fprintln(out, "No visible items")
					return nil
				}
				fmt.Fprintln(out, renderItemsTable(resp.Items))
				return nil
			})
		},
	}
}

func renderItemsTable(items []state.Item) string {
	headers := []string{"Name", "Kind", "Status", "Icon", "Description"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Name,
			item.Kind,
			string(item.IconStatus),
			itemIconCell(item),
			previewDescription(item.Description),
		})
	}
	return renderTable(headers, rows)
}

func itemIconCell(item state.Item) string {
	if item.IconPath == "" {
		return "-"
	}
	return item.IconPath
}

func previewDescription(description string) string {
	description = strings.TrimSpace(description)
	if len(description) <= descriptionPreviewLimit {
		return description
	}
	return strings.TrimSpace(description[:descriptionPreviewLimit]) + "..."
}
