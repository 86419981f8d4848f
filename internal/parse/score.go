package parse

import (
	"math"
	"strconv"
	"time"

	"github.com/clinicops/censoload/internal/normalize"
	"github.com/clinicops/censoload/internal/sheet"
)

// ScoreDraft is a parsed social-score survey row. Score is nil when the
// surveyor recorded a reason instead of a number.
type ScoreDraft struct {
	EpisodeIdentifier string
	Score             *int32
	NoScoreReason     *string
	RecordedAt        time.Time
	RecordedBy        *string
}

// Score parses one survey row. The episode identifier is required; a
// missing or non-numeric score cell leaves Score nil rather than rejecting
// the row, since "no score, with reason" is a valid survey outcome.
func Score(row sheet.Row, now time.Time) (*ScoreDraft, error) {
	epRaw, _ := row.Get("episode_identifier")
	id, ok := normalize.Identifier(epRaw)
	if !ok {
		return nil, ErrNoEpisodeIdentifier
	}

	d := &ScoreDraft{EpisodeIdentifier: id, RecordedAt: now}

	scoreRaw, _ := row.Get("score")
	if s, ok := normalize.CleanCell(scoreRaw); ok {
		if n := parseScore(s); n != nil {
			d.Score = n
		}
	}

	reasonRaw, _ := row.Get("reason")
	if s, ok := normalize.CleanCell(reasonRaw); ok {
		d.NoScoreReason = &s
	}

	atRaw, _ := row.Get("recorded_at")
	if t := normalize.ParseDateTime(atRaw); t != nil {
		d.RecordedAt = *t
	}

	byRaw, _ := row.Get("recorded_by")
	if s, ok := normalize.CleanCell(byRaw); ok {
		d.RecordedBy = &s
	}

	return d, nil
}

// parseScore accepts integers and integral floats ("7", "7.0").
func parseScore(s string) *int32 {
	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		n := int32(i)
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		n := int32(f)
		return &n
	}
	return nil
}
