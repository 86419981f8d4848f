package model

import "time"

// ImportSummary reports the outcome of one import batch.
type ImportSummary struct {
	BatchID  string
	File     string
	Sheet    string
	RowsRead int
	Created  int
	Updated  int
	Skipped  int
	// MissingIdentifiers lists external episode identifiers that could not
	// be reconciled against any stored episode.
	MissingIdentifiers []string
	Duration           time.Duration
}
