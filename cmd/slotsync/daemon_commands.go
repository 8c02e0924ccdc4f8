package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"slotsync/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and sync status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderStatus(status, time.Now()))
				return nil
			})
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the slotsync daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.Stopped {
					fmt.Fprintln(stdout, "Daemon stopped")
				} else {
					fmt.Fprintln(stdout, "Stop request sent")
				}
				return nil
			})
		},
	}
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Rebuild the mapping and deliver it immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Sync()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Synced %d session(s)\n", resp.Sync.Sessions)
				if len(resp.Sync.Mapping) > 0 {
					fmt.Fprint(stdout, slotTable(resp.Sync.Mapping))
					fmt.Fprintln(stdout)
				}
				return nil
			})
		},
	}
}

func renderStatus(status *ipc.StatusResponse, now time.Time) string {
	var b strings.Builder

	running := "no"
	if status.Running {
		running = "yes"
	}
	rows := [][2]string{
		{"Running", running},
		{"PID", strconv.Itoa(status.PID)},
		{"Instance", status.InstanceID},
		{"Started", formatAge(status.StartedAt, now)},
		{"Receiver", status.ReceiverURL},
		{"Marker", status.MarkerPath},
		{"Socket", status.SocketPath},
		{"Last sync", fmt.Sprintf("%s (%s, %d session(s))",
			formatAge(status.LastSync.Time, now), status.LastSync.Trigger, status.LastSync.Sessions)},
	}
	b.WriteString(fieldTable(rows))
	b.WriteString("\n")

	if len(status.LastSync.Mapping) > 0 {
		b.WriteString(slotTable(status.LastSync.Mapping))
		b.WriteString("\n")
	}
	return b.String()
}

func formatAge(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
