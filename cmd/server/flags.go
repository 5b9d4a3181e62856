package main

import (
	"log/slog"
	"os"

	"github.com/go-extras/cobraflags"

	"github.com/iliyamo/plant-catalog/internal/config"
	"github.com/iliyamo/plant-catalog/internal/logger"
)

// Flags shared by the subcommands.  An empty flag value leaves the
// environment (or its default) in charge.
const (
	envFileFlag  = "env-file"
	dbDriverFlag = "db-driver"
	dbPathFlag   = "db-path"
	portFlag     = "port"
	logLevelFlag = "log-level"
)

// flagEnvKeys maps a flag to the variable it overrides.
var flagEnvKeys = map[string]string{
	dbDriverFlag: "DB_DRIVER",
	dbPathFlag:   "DB_PATH",
	portFlag:     "APP_PORT",
	logLevelFlag: "LOG_LEVEL",
}

func dbFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		envFileFlag: &cobraflags.StringFlag{
			Name:  envFileFlag,
			Value: "",
			Usage: "Path of a .env file to load (default .env when present)",
		},
		dbDriverFlag: &cobraflags.StringFlag{
			Name:  dbDriverFlag,
			Value: "",
			Usage: "Database dialect (sqlite, mysql, postgres); overrides DB_DRIVER",
		},
		dbPathFlag: &cobraflags.StringFlag{
			Name:  dbPathFlag,
			Value: "",
			Usage: "SQLite database file; overrides DB_PATH",
		},
		logLevelFlag: &cobraflags.StringFlag{
			Name:  logLevelFlag,
			Value: "",
			Usage: "Log level (debug, info, warn, error); overrides LOG_LEVEL",
		},
	}
}

// loadConfig builds the configuration from .env, the environment and the
// flags registered on the running command, plus the logger it describes.
func loadConfig(flags map[string]cobraflags.Flag) (config.Config, *slog.Logger, error) {
	var envFiles []string
	if f, ok := flags[envFileFlag]; ok {
		if path := f.GetString(); path != "" {
			envFiles = append(envFiles, path)
		}
	}
	v := config.NewViper(envFiles...)
	for name, key := range flagEnvKeys {
		f, ok := flags[name]
		if !ok {
			continue
		}
		if val := f.GetString(); val != "" {
			v.Set(key, val)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	return cfg, log, nil
}
