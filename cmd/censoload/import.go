package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicops/censoload/internal/config"
	"github.com/clinicops/censoload/internal/db"
	"github.com/clinicops/censoload/internal/exitcode"
	"github.com/clinicops/censoload/internal/ingest"
	"github.com/clinicops/censoload/internal/model"
)

type importFunc func(context.Context, *pgxpool.Pool, zerolog.Logger, *config.Config) (*model.ImportSummary, error)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a census spreadsheet",
}

var importBedsCmd = &cobra.Command{
	Use:   "beds",
	Short: "Import the bed roster sheet",
	RunE:  runImport(ingest.ImportBeds),
}

var importAdmissionsCmd = &cobra.Command{
	Use:   "admissions",
	Short: "Import the admission/case sheet (patients + episodes)",
	RunE:  runImport(ingest.ImportAdmissions),
}

var importScoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Import the social-score survey sheet",
	RunE:  runImport(ingest.ImportScores),
}

var importDischargesCmd = &cobra.Command{
	Use:   "discharges",
	Short: "Backfill discharges from the stay-management export",
	RunE:  runImport(ingest.ImportDischarges),
}

var importGRDCmd = &cobra.Command{
	Use:   "grd",
	Short: "Backfill expected stay days from the GRD norm export",
	RunE:  runImport(ingest.ImportGRD),
}

var importAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Run beds, admissions, and scores in dependency order",
	RunE:  runImportAll,
}

func init() {
	for _, c := range []*cobra.Command{importBedsCmd, importAdmissionsCmd, importScoresCmd, importDischargesCmd, importGRDCmd} {
		c.Flags().StringVar(&cfg.File, "file", "", "Path to xlsx workbook (required)")
		_ = c.MarkFlagRequired("file")
		importCmd.AddCommand(c)
	}

	f := importAllCmd.Flags()
	f.StringVar(&cfg.BedsFile, "beds-file", "", "Path to the bed roster workbook (required)")
	f.StringVar(&cfg.CasesFile, "cases-file", "", "Path to the case workbook (required)")
	_ = importAllCmd.MarkFlagRequired("beds-file")
	_ = importAllCmd.MarkFlagRequired("cases-file")
	importCmd.AddCommand(importAllCmd)

	rootCmd.AddCommand(importCmd)
}

func runImport(fn importFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := setup()
		ctx := context.Background()

		if err := cfg.ValidateWithDSN(); err != nil {
			log.Error().Err(err).Msg("config validation failed")
			os.Exit(exitcode.UsageError)
		}

		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()

		summary, err := fn(ctx, pool, log, cfg)
		if err != nil {
			exitImportErr(log, err)
		}
		printSummary(summary)
		if summary.Skipped > 0 || len(summary.MissingIdentifiers) > 0 {
			os.Exit(exitcode.PartialSuccess)
		}
		return nil
	}
}

func runImportAll(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summaries, err := ingest.ImportAll(ctx, pool, log, cfg)
	for _, s := range summaries {
		printSummary(s)
	}
	if err != nil {
		exitImportErr(log, err)
	}

	partial := false
	for _, s := range summaries {
		if s.Skipped > 0 || len(s.MissingIdentifiers) > 0 {
			partial = true
		}
	}
	if partial {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

func exitImportErr(log zerolog.Logger, err error) {
	var ie *ingest.ImportError
	if errors.As(err, &ie) {
		log.Error().Err(ie.Err).Str("phase", ie.Phase).Msg("import failed")
		switch ie.Phase {
		case ingest.PhaseOpen, ingest.PhaseSheet:
			os.Exit(exitcode.SheetError)
		default:
			os.Exit(exitcode.ImportError)
		}
	}
	log.Error().Err(err).Msg("import failed")
	os.Exit(exitcode.ImportError)
}

func printSummary(s *model.ImportSummary) {
	fmt.Printf("Import %s complete: %d rows, %d created, %d updated, %d skipped (%.1fs)\n",
		s.Sheet, s.RowsRead, s.Created, s.Updated, s.Skipped, s.Duration.Seconds())
	if len(s.MissingIdentifiers) > 0 {
		fmt.Printf("  %d rows referenced unknown episodes:\n", len(s.MissingIdentifiers))
		for _, id := range s.MissingIdentifiers {
			fmt.Printf("    %s\n", id)
		}
	}
}
