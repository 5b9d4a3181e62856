package main

import (
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/iliyamo/plant-catalog/internal/database"
)

func newMigrateCommand() *cobra.Command {
	flags := dbFlags()
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the plants table if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(flags)
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.DB, log)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Info("schema up to date", "db", cfg.DB.Driver)
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}
