package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clinicops/censoload/internal/config"
	"github.com/clinicops/censoload/internal/exitcode"
	"github.com/clinicops/censoload/internal/logging"
	"github.com/rs/zerolog"
)

var cfg = config.New()

var configFile string

var rootCmd = &cobra.Command{
	Use:   "censoload",
	Short: "Hospital census spreadsheet → Postgres loader",
	Long:  "Reconciles heterogeneous hospital census spreadsheets (bed rosters, case sheets, social-risk surveys, stay-management exports) into a canonical relational record.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&configFile, "config", "", "Optional YAML file overriding sheet names")
}

// setup builds the logger and merges the optional config file. Called at
// the top of every RunE.
func setup() zerolog.Logger {
	log := logging.Setup(cfg.LogFormat)
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			log.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	return log
}
