package parse

import (
	"errors"
	"strings"
	"time"

	"github.com/clinicops/censoload/internal/anonymize"
	"github.com/clinicops/censoload/internal/normalize"
	"github.com/clinicops/censoload/internal/sheet"
)

// PatientDraft is a parsed patient identity from a case row. Generated
// reports whether the identity was derived rather than read from the sheet.
type PatientDraft struct {
	MedicalIdentifier string
	FirstName         string
	LastName          string
	RawIdentifier     string
	BirthDate         time.Time
	Gender            string
	Generated         bool
}

// ErrNoEpisodeIdentifier marks a case row without an episode identifier.
// The identifier doubles as the anonymizer seed, so without it the row can
// neither be reconciled nor given a stable pseudo-identity.
var ErrNoEpisodeIdentifier = errors.New("missing episode identifier")

// Patient parses the identity fields of a case row. Real identifier and
// name are used when present; missing ones are derived deterministically
// from the episode identifier, so the same episode always produces the same
// placeholder identity.
func Patient(row sheet.Row) (*PatientDraft, error) {
	epRaw, _ := row.Get("episode_identifier")
	seed, ok := normalize.CleanCell(epRaw)
	if !ok {
		return nil, ErrNoEpisodeIdentifier
	}

	d := &PatientDraft{Gender: "Desconocido"}

	idRaw, _ := row.Get("patient_identifier")
	if id, ok := normalize.CleanCell(idRaw); ok {
		d.MedicalIdentifier = id
	} else {
		d.MedicalIdentifier = anonymize.Identifier(seed)
		d.Generated = true
	}
	d.RawIdentifier = d.MedicalIdentifier

	nameRaw, _ := row.Get("patient_name")
	if name, ok := normalize.CleanCell(nameRaw); ok {
		first, last, _ := strings.Cut(name, " ")
		d.FirstName = first
		d.LastName = strings.TrimSpace(last)
	} else {
		d.FirstName, d.LastName = anonymize.Name(seed)
	}

	birthRaw, _ := row.Get("birth_date")
	if t := normalize.ParseDate(birthRaw); t != nil {
		d.BirthDate = *t
	} else {
		d.BirthDate = normalize.DefaultBirthDate
	}

	genderRaw, _ := row.Get("gender")
	if g, ok := normalize.CleanCell(genderRaw); ok {
		d.Gender = g
	}

	return d, nil
}
