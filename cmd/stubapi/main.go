package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/news-admin/internal/config"
	"github.com/jrsteele09/news-admin/internal/logging"
	"github.com/jrsteele09/news-admin/stubapi"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running stub backend")
	}
	log.Info().Msg("Stub backend stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load("")
	if err != nil {
		return err
	}
	logger := logging.New(logging.Options{Level: c.GetLogLevel(), Pretty: c.GetLogPretty()})
	log.Logger = logger

	displayAppname(c.GetAppName() + " stub")

	backend := stubapi.New(
		stubapi.WithEnv(c.GetEnv()),
		stubapi.WithSecret(c.GetStubSecret()),
		stubapi.WithTokenTTL(c.GetStubTokenTTL()),
		stubapi.WithLogger(logger),
	)
	if _, err := backend.AddUser(c.GetStubAdminEmail(), c.GetStubAdminPassword(), "Administrator", "admin"); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	logger.Info().Str("email", c.GetStubAdminEmail()).Msg("Seeded admin user")

	server := &http.Server{Addr: c.GetStubAddr(), Handler: backend, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(server, logger) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
