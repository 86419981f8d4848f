package parse

import (
	"time"

	"github.com/clinicops/censoload/internal/model"
	"github.com/clinicops/censoload/internal/normalize"
	"github.com/clinicops/censoload/internal/sheet"
)

// EpisodeDraft is a parsed admission from a case row. BedRoom is the room
// name as written in the sheet; the store resolves it to a bed key at
// insert time.
type EpisodeDraft struct {
	EpisodeIdentifier *string
	AdmissionAt       time.Time
	DischargeAt       *time.Time
	ExpectedDischarge *time.Time
	Status            model.EpisodeStatus
	BedRoom           *string
}

// Episode parses the admission fields of a case row. It never rejects the
// row: missing admission falls back to now, unparseable discharge dates
// stay null, and the status defaults through ClassifyStatus.
func Episode(row sheet.Row, now time.Time) *EpisodeDraft {
	d := &EpisodeDraft{AdmissionAt: now}

	epRaw, _ := row.Get("episode_identifier")
	if id, ok := normalize.Identifier(epRaw); ok {
		d.EpisodeIdentifier = &id
	}

	admRaw, _ := row.Get("admission_at")
	if t := normalize.ParseDateTime(admRaw); t != nil {
		d.AdmissionAt = *t
	}

	dischRaw, _ := row.Get("discharge_at")
	if t := normalize.ParseDateTime(dischRaw); t != nil {
		d.DischargeAt = t
		d.ExpectedDischarge = t
	}

	statusRaw, _ := row.Get("discharge_status")
	status, _ := normalize.CleanCell(statusRaw)
	d.Status = model.ClassifyStatus(status, d.DischargeAt != nil)

	roomRaw, _ := row.Get("bed_room")
	if room, ok := normalize.CleanCell(roomRaw); ok {
		d.BedRoom = &room
	}

	return d
}

// DischargeDraft is a parsed discharge backfill row.
type DischargeDraft struct {
	EpisodeIdentifier string
	DischargeAt       *time.Time
	ExpectedDischarge *time.Time
	Status            *model.EpisodeStatus
}

// Discharge parses one stay-management row. The episode identifier is
// required; everything else updates only when present.
func Discharge(row sheet.Row) (*DischargeDraft, error) {
	epRaw, _ := row.Get("episode_identifier")
	id, ok := normalize.Identifier(epRaw)
	if !ok {
		return nil, ErrNoEpisodeIdentifier
	}
	d := &DischargeDraft{EpisodeIdentifier: id}

	dischRaw, _ := row.Get("discharge_at")
	if t := normalize.ParseDateTime(dischRaw); t != nil {
		d.DischargeAt = t
	}

	expRaw, _ := row.Get("expected_discharge")
	if t := normalize.ParseDate(expRaw); t != nil {
		d.ExpectedDischarge = t
	}

	statusRaw, _ := row.Get("discharge_status")
	if s, ok := normalize.CleanCell(statusRaw); ok || d.DischargeAt != nil {
		status := model.ClassifyStatus(s, d.DischargeAt != nil)
		d.Status = &status
	}

	return d, nil
}
