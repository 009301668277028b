package main

import (
	"os"

	"calendar-api/core/config"
	"calendar-api/core/logger"
	"calendar-api/core/server"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "calendar-api",
		Usage: "Calendar sharing API: calendars, events, participants and invitations.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "extra directory to search for config.yaml",
				EnvVars: []string{"CONFIG_DIR"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: withConfig(server.Run),
			},
			{
				Name:   "worker",
				Usage:  "Run the background worker (invite emails, invite cleanup)",
				Action: withConfig(server.RunWorker),
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: withConfig(server.RunMigrations),
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func withConfig(run func(*config.Config) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		var paths []string
		if dir := c.String("config-dir"); dir != "" {
			paths = append(paths, dir)
		}
		cfg, err := config.Init(paths...)
		if err != nil {
			return err
		}
		return run(cfg)
	}
}
