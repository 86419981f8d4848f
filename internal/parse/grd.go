package parse

import (
	"errors"
	"strconv"

	"github.com/clinicops/censoload/internal/normalize"
	"github.com/clinicops/censoload/internal/sheet"
)

// ErrNoExpectedStay marks a GRD norm row without a usable stay-days cell.
var ErrNoExpectedStay = errors.New("row has no expected stay days")

// GRDDraft is a parsed GRD norm row: an episode to match and the expected
// stay days to write onto it.
type GRDDraft struct {
	EpisodeIdentifier string
	ExpectedDays      int32
}

// GRD parses one GRD norm row. Both cells are required; the stay days are
// truncated to whole days when the export carries decimals.
func GRD(row sheet.Row) (*GRDDraft, error) {
	epRaw, _ := row.Get("episode_identifier")
	id, ok := normalize.Identifier(epRaw)
	if !ok {
		return nil, ErrNoEpisodeIdentifier
	}

	daysRaw, _ := row.Get("expected_days")
	s, ok := normalize.CleanCell(daysRaw)
	if !ok {
		return nil, ErrNoExpectedStay
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, ErrNoExpectedStay
	}

	return &GRDDraft{EpisodeIdentifier: id, ExpectedDays: int32(f)}, nil
}
