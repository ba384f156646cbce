package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/news-admin/app"
	"github.com/jrsteele09/news-admin/internal/config"
	"github.com/jrsteele09/news-admin/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const logFileName = "admin.log"

// cli holds what the subcommands share. The app is built once in the root's
// PersistentPreRunE and torn down by close.
type cli struct {
	cfgFile string
	verbose bool

	cfg     config.Config
	app     *app.App
	logFile *os.File
	appOpts []app.Option // tests inject a store here
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "news-admin",
		Short:         "Administrative console for the news platform",
		Long:          `news-admin signs administrators in, tracks their backend session and hosts the interactive admin console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "TOML config file (default $NEWSADMIN_CONFIG)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "also write logs to stderr")

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newConsoleCmd(c),
		newSessionCmd(c),
		newActivityCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	var out io.Writer = io.Discard
	if err := os.MkdirAll(cfg.GetDataDir(), 0o700); err == nil {
		f, err := os.OpenFile(filepath.Join(cfg.GetDataDir(), logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			c.logFile = f
			out = f
		}
	}
	if c.verbose {
		out = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	logger := logging.New(logging.Options{Level: cfg.GetLogLevel(), Out: out})
	log.Logger = logger

	opts := append([]app.Option{app.WithLogger(logger)}, c.appOpts...)
	a, err := app.New(cmd.Context(), cfg, opts...)
	if err != nil {
		return err
	}
	a.Init(cmd.Context())
	c.app = a
	return nil
}

func (c *cli) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close app")
		}
		c.app = nil
	}
	if c.logFile != nil {
		_ = c.logFile.Close()
		c.logFile = nil
	}
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
