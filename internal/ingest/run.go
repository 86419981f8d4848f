// Package ingest orchestrates the imports: workbook in, canonical records
// out, one transaction per batch. Structural problems abort and roll back;
// row-level problems log and skip.
package ingest

import "fmt"

// Phases an import moves through. ImportError carries the phase so the CLI
// can map failures to exit codes.
const (
	PhaseOpen      = "open"
	PhaseSheet     = "sheet"
	PhasePersist   = "persist"
	PhaseReconcile = "reconcile"
)

// ImportError wraps a batch-fatal failure with the phase it happened in.
type ImportError struct {
	Phase string
	Err   error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed in %s phase: %v", e.Phase, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

func phaseErr(phase string, err error) *ImportError {
	return &ImportError{Phase: phase, Err: err}
}
