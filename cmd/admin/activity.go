package main

import (
	"fmt"

	"github.com/jrsteele09/news-admin/authgate"
	"github.com/jrsteele09/news-admin/sessionlog"
	"github.com/spf13/cobra"
)

// cliNavigator remembers the gate's redirect so the command can report it.
type cliNavigator struct {
	redirect *authgate.Redirect
}

func (n *cliNavigator) Redirect(r authgate.Redirect) {
	n.redirect = &r
}

func (n *cliNavigator) ShowSessionExpired(*authgate.Mount) {}

func newActivityCmd(c *cli) *cobra.Command {
	var metadata map[string]string

	cmd := &cobra.Command{
		Use:   "activity <action> <section> <description>",
		Short: "Record an activity against the current session",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, section, description := args[0], args[1], args[2]

			nav := &cliNavigator{}
			gate := c.app.NewGate(nav, nav)
			mount := gate.Enter(cmd.Context(), "/"+section)
			defer mount.Unmount()
			if !mount.Allowed() {
				return fmt.Errorf("not signed in (%w); run 'news-admin login'", mount.Err())
			}

			a := sessionlog.Activity{Action: action, Section: section, Description: description}
			if len(metadata) > 0 {
				a.Metadata = make(map[string]any, len(metadata))
				for k, v := range metadata {
					a.Metadata[k] = v
				}
			}
			c.app.Sessions.LogActivity(cmd.Context(), a)

			if _, ok := c.app.Sessions.SessionID(cmd.Context()); !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No current session; activity not recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Activity recorded")
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&metadata, "meta", nil, "metadata as key=value pairs")
	return cmd
}
