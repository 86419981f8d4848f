// Package parse turns schema-mapped sheet rows into draft records. Parsers
// are pure: they never touch the database and report unusable rows as
// errors for the orchestrator to log and skip.
package parse

import (
	"errors"
	"strings"

	"github.com/clinicops/censoload/internal/normalize"
	"github.com/clinicops/censoload/internal/sheet"
)

// BedDraft is a parsed bed roster row.
type BedDraft struct {
	Room      string
	Active    bool
	Available bool
}

// Bed parses one bed roster row. The room comes from the canonical room
// column, falling back to the habitacion column; a row with neither is
// unusable.
func Bed(row sheet.Row) (*BedDraft, error) {
	raw, _ := row.Get("room")
	room, ok := normalize.CleanCell(raw)
	if !ok {
		raw, _ = row.Get("habitacion")
		room, ok = normalize.CleanCell(raw)
	}
	if !ok {
		return nil, errors.New("missing room identifier")
	}

	blockedRaw, _ := row.Get("blocked")
	blocked, _ := normalize.CleanCell(blockedRaw)
	available := isUnblocked(blocked)

	return &BedDraft{Room: room, Active: true, Available: available}, nil
}

// isUnblocked interprets the blocked-flag cell. Anything outside the
// explicit negatives means the bed is blocked.
func isUnblocked(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NO", "N", "FALSE", "0":
		return true
	}
	return false
}
