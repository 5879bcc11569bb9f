package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/junaidrashid-git/shopeasy-api/app"
	"github.com/junaidrashid-git/shopeasy-api/config"
	"github.com/junaidrashid-git/shopeasy-api/logging"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

func main() {
	cliApp := &cli.App{
		Name:  "shopeasy",
		Usage: "ShopEasy storefront API",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "dotenv files to load before reading the environment",
				Value: cli.NewStringSlice(".env"),
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server (default)",
				Action: serve,
			},
			{
				Name:   "seed",
				Usage:  "load the sample catalog, users and reviews into an empty store",
				Action: seed,
			},
			{
				Name:   "stats",
				Usage:  "print document counts per collection",
				Action: stats,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("❌ shopeasy failed")
	}
}

func setup(c *cli.Context) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return config.Config{}, nil, errors.Wrap(err, "load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("✅ Starting application...")
	return cfg, log, nil
}

func serve(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.WithError(err).Error("❌ Failed to close storage")
		}
	}()

	return a.Run(ctx)
}

func seed(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	a, err := app.New(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	result, err := a.Seeder.Seed(c.Context)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func stats(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	adapter, err := app.OpenStorage(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer adapter.Close(context.Background())

	counts, err := storage.Stats(c.Context, adapter, storage.AllCollections()...)
	if err != nil {
		return err
	}
	return printJSON(counts)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
