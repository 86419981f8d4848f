package ingest

import (
	"errors"
	"fmt"

	"github.com/clinicops/censoload/internal/parse"
	"github.com/clinicops/censoload/internal/sheet"
)

// ErrUnknownKind is returned by Plan for an unrecognized import kind.
var ErrUnknownKind = errors.New("unknown import kind")

// PlanReport describes what an import would see in a workbook, without
// touching the database.
type PlanReport struct {
	File     string
	Sheet    string
	Tabs     []string
	Rows     int
	Columns  []string
	Resolved map[string]string
	Unmapped []string
}

// fieldMapFor picks the candidate table for a plan kind.
func fieldMapFor(kind string) (sheet.FieldMap, error) {
	switch kind {
	case "beds":
		return parse.BedFields, nil
	case "admissions":
		return parse.CaseFields, nil
	case "scores":
		return parse.ScoreFields, nil
	case "discharges":
		return parse.DischargeFields, nil
	case "grd":
		return parse.GRDFields, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
}

// Plan opens a workbook, runs header detection and field mapping for the
// given import kind, and reports the outcome. Read-only: the dry run for
// checking a new export before importing it.
func Plan(path, sheetName, kind string) (*PlanReport, error) {
	fm, err := fieldMapFor(kind)
	if err != nil {
		return nil, err
	}

	wb, err := sheet.Open(path)
	if err != nil {
		return nil, phaseErr(PhaseOpen, err)
	}
	defer wb.Close()

	tbl, err := wb.Sheet(sheetName)
	if err != nil {
		return nil, phaseErr(PhaseSheet, err)
	}

	resolved := fm.Apply(tbl)

	report := &PlanReport{
		File:     path,
		Sheet:    sheetName,
		Tabs:     wb.SheetNames(),
		Rows:     tbl.Len(),
		Columns:  tbl.Columns(),
		Resolved: resolved,
	}
	canonical := make(map[string]bool, len(resolved))
	for name := range resolved {
		canonical[name] = true
	}
	for _, col := range tbl.Columns() {
		if !canonical[col] {
			report.Unmapped = append(report.Unmapped, col)
		}
	}
	return report, nil
}
