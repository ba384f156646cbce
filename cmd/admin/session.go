package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jrsteele09/news-admin/internal/utils"
	"github.com/spf13/cobra"
)

func newSessionCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Short:   "Inspect and manage backend sessions",
		Aliases: []string{"sessions"},
	}
	cmd.AddCommand(
		newSessionIDCmd(c),
		newSessionListCmd(c),
		newSessionRevokeCmd(c),
	)
	return cmd
}

func newSessionIDCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "id",
		Short: "Print the current session identifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := c.app.Sessions.SessionID(cmd.Context())
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No current session")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newSessionListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions tracked by the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := c.app.Client.ListSessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				return nil
			}

			current, _ := c.app.Sessions.SessionID(cmd.Context())
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tDEVICE\tIP\tLOCATION\tSTARTED\tACTIVITIES")
			for _, s := range sessions {
				status := "active"
				if !s.Active {
					status = utils.Or(s.Reason, "ended")
				}
				id := s.ID
				if id == current {
					id += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s, %s\t%s\t%d\n",
					id, status, s.DeviceType, s.IPAddress, s.Location.City, s.Location.Country,
					s.CreatedAt.Local().Format(time.DateTime), len(s.Activities))
			}
			return tw.Flush()
		},
	}
}

func newSessionRevokeCmd(c *cli) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "revoke <session-id>",
		Short: "Revoke a backend session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Sessions.RevokeSession(cmd.Context(), args[0], note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s revoked\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "reason recorded with the revocation")
	return cmd
}
