package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/apiclient"
	"github.com/smarttransit/route-booking/internal/config"
	"github.com/smarttransit/route-booking/internal/controller"
	"github.com/smarttransit/route-booking/internal/session"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var verbose bool
	flagSet := pflag.NewFlagSet("booking-cli", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.APIURL, "api", cfg.APIURL, "booking backend base URL")
	flagSet.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout for each backend request")
	flagSet.StringVar(&cfg.StateFile, "state", cfg.StateFile, "file holding the logged in user")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log backend traffic to stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	client := apiclient.NewClient(apiclient.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout,
		Logger:  logger.WithField("component", "apiclient"),
	})

	ctrl := controller.New(controller.Options{
		API:          client,
		UserStorage:  session.NewFileStorage(cfg.StateFile),
		AdminStorage: session.NewMemoryStorage(),
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(ctrl, bufio.NewReader(os.Stdin), os.Stdout)
	return app.run(ctx)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `booking-cli: search bus routes, pick seats and book tickets.

The logged in user is remembered in the state file between runs. Admin
credentials are kept only for the current run.

Usage:
  booking-cli [flags]

Environment:
  BOOKING_API_URL, BOOKING_API_TIMEOUT, BOOKING_STATE_FILE, LOG_LEVEL

Flags:
`)
	flagSet.PrintDefaults()
}
