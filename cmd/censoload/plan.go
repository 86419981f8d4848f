package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinicops/censoload/internal/exitcode"
	"github.com/clinicops/censoload/internal/ingest"
)

var (
	planKind  string
	planSheet string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run workbook inspection (no writes)",
	Long:  "Opens a workbook, runs header detection and field mapping for the chosen import kind, and reports what an import would see.",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.File, "file", "", "Path to xlsx workbook (required)")
	f.StringVar(&planKind, "kind", "admissions", "Import kind: beds, admissions, scores, discharges, grd")
	f.StringVar(&planSheet, "sheet", "", "Sheet name (defaults to the kind's configured name)")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := setup()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sheetName := planSheet
	if sheetName == "" {
		switch planKind {
		case "beds":
			sheetName = cfg.Sheets.Beds
		case "scores":
			sheetName = cfg.Sheets.Scores
		case "discharges":
			sheetName = cfg.Sheets.Discharges
		case "grd":
			sheetName = cfg.Sheets.GRD
		default:
			sheetName = cfg.Sheets.Cases
		}
	}

	report, err := ingest.Plan(cfg.File, sheetName, planKind)
	if err != nil {
		log.Error().Err(err).Msg("plan failed")
		if errors.Is(err, ingest.ErrUnknownKind) {
			os.Exit(exitcode.UsageError)
		}
		os.Exit(exitcode.SheetError)
	}

	fmt.Println("=== censoload plan ===")
	fmt.Printf("File:  %s\n", report.File)
	fmt.Printf("Tabs:  %s\n", strings.Join(report.Tabs, ", "))
	fmt.Printf("Sheet: %s\n", report.Sheet)
	fmt.Printf("Kind:  %s\n", planKind)
	fmt.Printf("Rows:  %d\n", report.Rows)
	fmt.Println()

	fields := make([]string, 0, len(report.Resolved))
	for name := range report.Resolved {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	fmt.Printf("Mapped fields (%d):\n", len(fields))
	for _, name := range fields {
		fmt.Printf("  %-20s <- %q\n", name, report.Resolved[name])
	}
	if len(report.Unmapped) > 0 {
		fmt.Printf("\nPass-through columns (%d):\n", len(report.Unmapped))
		for _, col := range report.Unmapped {
			fmt.Printf("  %s\n", col)
		}
	}
	return nil
}
