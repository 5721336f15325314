package main

import (
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"iconforge/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				status, err := client.Status(cmd.Context())
				if err != nil {
					return err
				}
				renderStatus(cmd.OutOrStdout(), status)
				return nil
			})
		},
	}
}

func renderStatus(out io.Writer, status api.DaemonStatus) {
	p := newStatusPrinter(out)

	p.section("Daemon")
	runningKind := statusError
	if status.Running {
		runningKind = statusOK
	}
	p.check("Running", runningKind, yesNo(status.Running))
	p.field("PID", strconv.Itoa(status.PID))
	p.field("Version", strconv.FormatUint(status.Version, 10))
	p.field("Queue depth", strconv.Itoa(status.QueueDepth))
	p.field("State file", status.StatePath)
	p.field("Lock file", status.LockFilePath)
	p.field("Last scan", formatLastScan(status.LastScan))

	p.blank()
	p.section("Dependencies")
	if len(status.Dependencies) == 0 {
		p.field("Dependencies", "none reported")
		return
	}
	for _, dep := range status.Dependencies {
		kind := statusOK
		message := dep.Command
		if !dep.Available {
			kind = statusError
			if dep.Optional {
				kind = statusWarn
			}
			if dep.Detail != "" {
				message = dep.Detail
			}
		}
		p.check(dep.Name, kind, message)
	}
}

func formatLastScan(lastScan *time.Time) string {
	if lastScan == nil {
		return "never"
	}
	return lastScan.Local().Format(time.RFC1123)
}
