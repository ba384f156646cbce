package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/jrsteele09/news-admin/console"
	"github.com/spf13/cobra"
)

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and start a backend session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if email == "" || password == "" {
				return errors.New("--email and --password (or --password-stdin) are required")
			}

			out := cmd.OutOrStdout()
			displayAppname(out, c.cfg.GetAppName())

			res, err := c.app.SignIn.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if res.SessionID == "" {
				fmt.Fprintf(out, "Signed in as %s (session logging unavailable)\n", res.User.Email)
				return nil
			}
			fmt.Fprintf(out, "Signed in as %s (session %s)\n", res.User.Email, res.SessionID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "administrator email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session and forget the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.SignIn.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newConsoleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Open the interactive admin console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.Run(cmd.Context(), c.app)
		},
	}
}
