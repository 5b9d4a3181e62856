package main

import (
	"context"
	"errors"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/iliyamo/plant-catalog/internal/queue"
)

func newConsumeCommand() *cobra.Command {
	flags := map[string]cobraflags.Flag{
		envFileFlag: &cobraflags.StringFlag{
			Name:  envFileFlag,
			Value: "",
			Usage: "Path of a .env file to load (default .env when present)",
		},
		logLevelFlag: &cobraflags.StringFlag{
			Name:  logLevelFlag,
			Value: "",
			Usage: "Log level (debug, info, warn, error); overrides LOG_LEVEL",
		},
	}
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Append plant lifecycle events to the audit log",
		Long: `Consume the plant events queue and append one line per event to
plants.log under EVENTS_LOG_DIR. Requires RABBITMQ_URL (or AMQP_URL).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.Events.URL == "" {
				return errors.New("missing required env var: RABBITMQ_URL")
			}
			c := &queue.Consumer{
				URL:    cfg.Events.URL,
				Queue:  cfg.Events.Queue,
				LogDir: cfg.Events.LogDir,
				Log:    log,
			}
			log.Info("audit consumer started", "queue", c.Queue, "dir", c.LogDir)
			if err := c.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("audit consumer stopped")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}
