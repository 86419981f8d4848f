package parse

import (
	"strconv"

	"github.com/clinicops/censoload/internal/model"
	"github.com/clinicops/censoload/internal/normalize"
	"github.com/clinicops/censoload/internal/sheet"
)

// InfoRecordDraft is one structured episode information record.
type InfoRecordDraft struct {
	Kind  model.InfoKind
	Title string
	Value model.InfoBag
}

// patientBagExcluded lists canonical fields already persisted on the
// patient or episode records and therefore left out of the patient bag.
var patientBagExcluded = map[string]bool{
	"patient_identifier": true,
	"patient_name":       true,
	"birth_date":         true,
	"gender":             true,
	"episode_identifier": true,
	"admission_at":       true,
	"discharge_at":       true,
	"discharge_status":   true,
	"bed_room":           true,
	"assigned_at":        true,
	"admission_year":     true,
	"admission_month":    true,
	"stay_days":          true,
}

// PatientInfoBag collects every column of a case row that is not persisted
// as a first-class field. Columns present but empty are kept as explicit
// nulls so downstream analysis can tell "was blank" from "was absent".
func PatientInfoBag(row sheet.Row) model.InfoBag {
	bag := make(model.InfoBag)
	for _, col := range row.Columns() {
		if patientBagExcluded[col] {
			continue
		}
		raw, _ := row.Get(col)
		bag[col] = cellValue(raw)
	}
	return bag
}

// episodeKnownFields lists the canonical case fields consumed either by the
// episode record or by one of the structured groups below. Leftover columns
// become individual records.
var episodeKnownFields = map[string]bool{
	"patient_identifier": true, "patient_name": true, "birth_date": true,
	"gender": true, "episode_identifier": true, "admission_at": true,
	"discharge_at": true, "discharge_status": true, "bed_room": true,
	"assigned_at": true, "admission_year": true, "admission_month": true,
	"diagnosis": true, "service": true, "care_center": true,
	"mark_1": true, "mark_2": true, "mark_3": true,
	"agreement": true, "insurer": true, "coverage": true,
	"entry_path": true, "survey": true, "reason": true, "score": true,
	"surveyor": true, "partial_value": true, "stay_days": true,
}

// EpisodeInfoRecords groups the descriptive case columns into structured
// information records, mirroring how the census exports organize them.
// Groups with no data in the row are omitted; within an emitted group,
// missing members are explicit nulls.
func EpisodeInfoRecords(row sheet.Row) []InfoRecordDraft {
	var records []InfoRecordDraft

	if v := optStr(row, "diagnosis"); !v.IsNull() {
		records = append(records, InfoRecordDraft{
			Kind:  model.InfoDiagnosis,
			Title: "Diagnóstico de Admisión",
			Value: model.InfoBag{"diagnosis": v},
		})
	}
	if v := optStr(row, "service"); !v.IsNull() {
		records = append(records, InfoRecordDraft{
			Kind:  model.InfoNotes,
			Title: "Servicio",
			Value: model.InfoBag{"servicio": v},
		})
	}
	if v := optStr(row, "care_center"); !v.IsNull() {
		records = append(records, InfoRecordDraft{
			Kind:  model.InfoNotes,
			Title: "Centro de Atención",
			Value: model.InfoBag{"centro_atencion": v},
		})
	}

	m1, m2, m3 := optStr(row, "mark_1"), optStr(row, "mark_2"), optStr(row, "mark_3")
	if !m1.IsNull() || !m2.IsNull() || !m3.IsNull() {
		records = append(records, InfoRecordDraft{
			Kind:  model.InfoOther,
			Title: "Clasificaciones",
			Value: model.InfoBag{"marca_1": m1, "marca_2": m2, "marca_3": m3},
		})
	}

	conv, aseg, prev := optStr(row, "agreement"), optStr(row, "insurer"), optStr(row, "coverage")
	if !conv.IsNull() || !aseg.IsNull() || !prev.IsNull() {
		records = append(records, InfoRecordDraft{
			Kind:  model.InfoOther,
			Title: "Información de Cobertura",
			Value: model.InfoBag{"convenio": conv, "aseguradora": aseg, "prevision": prev},
		})
	}

	if v := optStr(row, "entry_path"); !v.IsNull() {
		records = append(records, InfoRecordDraft{
			Kind:  model.InfoOther,
			Title: "Vía de Ingreso",
			Value: model.InfoBag{"via_ingreso": v},
		})
	}

	enc, mot, encr := optStr(row, "survey"), optStr(row, "reason"), optStr(row, "surveyor")
	punt := optNum(row, "score")
	if !enc.IsNull() || !mot.IsNull() || !punt.IsNull() || !encr.IsNull() {
		records = append(records, InfoRecordDraft{
			Kind:  model.InfoOther,
			Title: "Información de Encuesta",
			Value: model.InfoBag{
				"encuesta": enc, "motivo": mot,
				"puntaje": punt, "encuestadora": encr,
			},
		})
	}

	if v := optNum(row, "partial_value"); !v.IsNull() {
		records = append(records, InfoRecordDraft{
			Kind:  model.InfoOther,
			Title: "Valor Parcial",
			Value: model.InfoBag{"valor_parcial": v},
		})
	}
	if v := optNum(row, "stay_days"); !v.IsNull() {
		records = append(records, InfoRecordDraft{
			Kind:  model.InfoOther,
			Title: "Días de Hospitalización",
			Value: model.InfoBag{"dias_acostados": v},
		})
	}

	for _, col := range row.Columns() {
		if episodeKnownFields[col] {
			continue
		}
		raw, _ := row.Get(col)
		if v := cellValue(raw); !v.IsNull() {
			records = append(records, InfoRecordDraft{
				Kind:  model.InfoOther,
				Title: col,
				Value: model.InfoBag{col: v},
			})
		}
	}

	return records
}

// cellValue coerces a raw cell: integers, then floats, then recognizable
// timestamps, otherwise the cleaned string. Missing cells are nulls.
func cellValue(raw string) model.Value {
	s, ok := normalize.CleanCell(raw)
	if !ok {
		return model.Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.Float(f)
	}
	if t := normalize.ParseDateTime(s); t != nil {
		return model.Time(*t)
	}
	return model.String(s)
}

// optStr reads a cell as a cleaned string value or null.
func optStr(row sheet.Row, field string) model.Value {
	raw, _ := row.Get(field)
	if s, ok := normalize.CleanCell(raw); ok {
		return model.String(s)
	}
	return model.Null()
}

// optNum reads a cell preferring numeric coercion, falling back to the
// cleaned string, or null.
func optNum(row sheet.Row, field string) model.Value {
	raw, _ := row.Get(field)
	s, ok := normalize.CleanCell(raw)
	if !ok {
		return model.Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.Float(f)
	}
	return model.String(s)
}
