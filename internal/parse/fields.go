package parse

import "github.com/clinicops/censoload/internal/sheet"

// Canonical field tables for each sheet kind. Candidates are the labels the
// hospital's exports have actually used, in priority order; matching is
// accent- and punctuation-insensitive. These are static data, not runtime
// configuration: a new export variant means a new candidate here.

// BedFields maps the bed roster sheet ("Camas").
var BedFields = sheet.FieldMap{
	{Name: "room", Candidates: []string{"CAMA"}},
	{Name: "habitacion", Candidates: []string{"HABITACION", "Habitación"}},
	{Name: "blocked", Candidates: []string{"CAMA_BLOQUEADA", "Cama Bloqueada", "Bloqueada"}},
}

// CaseFields maps the admission/case sheet ("Data Casos"). The leading
// fields feed the patient and episode records; the trailing ones feed the
// structured episode information records. Anything unmatched passes through
// into the open bags.
var CaseFields = sheet.FieldMap{
	{Name: "episode_identifier", Candidates: []string{"Episodio / Estadía", "Episodio", "Estadía"}},
	{Name: "patient_identifier", Candidates: []string{"RUT", "Run"}},
	{Name: "patient_name", Candidates: []string{"Nombre", "Paciente"}},
	{Name: "birth_date", Candidates: []string{"Fecha de nacimiento", "Fec. Nacimiento"}},
	{Name: "admission_at", Candidates: []string{"Fe.admisión", "Fecha admisión", "Fecha de ingreso"}},
	{Name: "discharge_at", Candidates: []string{"Fecha del alta", "Fecha alta"}},
	{Name: "discharge_status", Candidates: []string{"Estado de alta"}},
	{Name: "bed_room", Candidates: []string{"Cama"}},
	{Name: "assigned_at", Candidates: []string{"Fecha Asignación"}},
	{Name: "admission_year", Candidates: []string{"Año Admisión"}},
	{Name: "admission_month", Candidates: []string{"Mes Admisión"}},
	{Name: "diagnosis", Candidates: []string{"Texto libre diagnóstico admisión", "Diagnóstico"}},
	{Name: "service", Candidates: []string{"Servicio"}},
	{Name: "care_center", Candidates: []string{"Centro Atención", "Centro de Atención"}},
	{Name: "mark_1", Candidates: []string{"Clasificación Marca 1"}},
	{Name: "mark_2", Candidates: []string{"Clasificación Marca 2"}},
	{Name: "mark_3", Candidates: []string{"Clasificación Marca 3"}},
	{Name: "agreement", Candidates: []string{"Desc. Convenio"}},
	{Name: "insurer", Candidates: []string{"Nombre de la aseguradora"}},
	{Name: "coverage", Candidates: []string{"Previsión Homóloga"}},
	{Name: "entry_path", Candidates: []string{"Vía de Ingreso"}},
	{Name: "survey", Candidates: []string{"Encuesta"}},
	{Name: "reason", Candidates: []string{"Motivo"}},
	{Name: "score", Candidates: []string{"Puntaje"}},
	{Name: "surveyor", Candidates: []string{"Encuestadora"}},
	{Name: "partial_value", Candidates: []string{"Valor Parcial"}},
	{Name: "stay_days", Candidates: []string{"DÍAS PACIENTES ACOSTADOS", "Días de hospitalización"}},
}

// ScoreFields maps the social-score survey sheet.
var ScoreFields = sheet.FieldMap{
	{Name: "episode_identifier", Candidates: []string{"Episodio / Estadía", "Episodio", "Estadía"}},
	{Name: "score", Candidates: []string{"Puntaje", "Score Social"}},
	{Name: "reason", Candidates: []string{"Motivo", "Motivo sin puntaje"}},
	{Name: "recorded_at", Candidates: []string{"Fecha Asignación", "Fecha"}},
	{Name: "recorded_by", Candidates: []string{"Encuestadora", "Encuestador"}},
}

// DischargeFields maps the stay-management export ("UCCC"), used to
// backfill discharges onto already-imported episodes.
var DischargeFields = sheet.FieldMap{
	{Name: "episode_identifier", Candidates: []string{"Episodio", "Episodio / Estadía", "N° Episodio"}},
	{Name: "discharge_at", Candidates: []string{"Fecha del alta", "Fecha Alta Real", "Fecha alta"}},
	{Name: "expected_discharge", Candidates: []string{"Fecha Alta Probable", "Alta Probable", "Fecha probable de alta"}},
	{Name: "discharge_status", Candidates: []string{"Estado de alta", "Estado"}},
}

// GRDFields maps the GRD norm export ("egresos 2024-2025"), used to
// backfill expected stay days onto already-imported episodes.
var GRDFields = sheet.FieldMap{
	{Name: "episode_identifier", Candidates: []string{"Episodio CMBD", "Episodio / Estadía", "Episodio"}},
	{Name: "expected_days", Candidates: []string{"Estancia Norma GRD", "Estancia Norma"}},
}
