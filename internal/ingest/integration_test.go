package ingest_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"

	"github.com/clinicops/censoload/internal/anonymize"
	"github.com/clinicops/censoload/internal/config"
	"github.com/clinicops/censoload/internal/db"
	"github.com/clinicops/censoload/internal/ingest"
	"github.com/clinicops/censoload/internal/logging"
)

const (
	testPort     = 15432
	testDB       = "censotest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB connects, resets the schema, and applies migrations.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS
		social_score_history, episode_information, clinical_episodes,
		patient_information, patients, beds CASCADE`)
	if err != nil {
		t.Fatalf("drop tables: %v", err)
	}

	log := logging.Setup("text")
	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

// writeWorkbook writes an xlsx file with one named sheet filled from rows.
func writeWorkbook(t *testing.T, path, sheetName string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetName); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("delete default sheet: %v", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func bedWorkbook(t *testing.T, dir string, rows [][]string) string {
	path := filepath.Join(dir, "camas.xlsx")
	writeWorkbook(t, path, "Camas", append([][]string{
		{"CAMA", "HABITACION", "CAMA_BLOQUEADA"},
	}, rows...))
	return path
}

var caseHeader = []string{
	"Episodio / Estadía", "RUT", "Nombre", "Fecha de nacimiento",
	"Fe.admisión", "Fecha del alta", "Estado de alta", "Cama",
	"Servicio", "Puntaje", "Motivo", "Fecha Asignación", "Encuestadora",
	"Columna Rara", "Vacía",
}

func caseWorkbook(t *testing.T, dir string, rows [][]string) string {
	path := filepath.Join(dir, "casos.xlsx")
	writeWorkbook(t, path, "Data Casos", append([][]string{caseHeader}, rows...))
	return path
}

func testConfig(file string) *config.Config {
	cfg := config.New()
	cfg.DSN = testDSN
	cfg.File = file
	return cfg
}

func TestImportBeds(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")
	ctx := context.Background()
	dir := t.TempDir()

	path := bedWorkbook(t, dir, [][]string{
		{"UCI 301", "301", "NO"},
		{"UCI 302", "302", "SI"},
		{"", "303", ""},
		{"", "", "SI"},
	})

	summary, err := ingest.ImportBeds(ctx, pool, log, testConfig(path))
	if err != nil {
		t.Fatalf("ImportBeds: %v", err)
	}
	if summary.Created != 3 || summary.Updated != 0 || summary.Skipped != 1 {
		t.Errorf("summary = created %d updated %d skipped %d", summary.Created, summary.Updated, summary.Skipped)
	}

	var available bool
	if err := pool.QueryRow(ctx, `SELECT available FROM beds WHERE room = 'UCI 302'`).Scan(&available); err != nil {
		t.Fatalf("query bed: %v", err)
	}
	if available {
		t.Error("blocked bed imported as available")
	}

	// Re-import with the block lifted: same beds, updated in place.
	path2 := filepath.Join(dir, "camas2.xlsx")
	writeWorkbook(t, path2, "Camas", [][]string{
		{"CAMA", "HABITACION", "CAMA_BLOQUEADA"},
		{"UCI 301", "301", "NO"},
		{"UCI 302", "302", "NO"},
	})
	summary, err = ingest.ImportBeds(ctx, pool, log, testConfig(path2))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if summary.Created != 0 || summary.Updated != 2 {
		t.Errorf("re-import summary = created %d updated %d", summary.Created, summary.Updated)
	}

	var total int
	pool.QueryRow(ctx, `SELECT count(*) FROM beds`).Scan(&total)
	if total != 3 {
		t.Errorf("bed count = %d, want 3", total)
	}
	pool.QueryRow(ctx, `SELECT available FROM beds WHERE room = 'UCI 302'`).Scan(&available)
	if !available {
		t.Error("unblocked bed should be available after re-import")
	}
}

func TestImportBedsMissingSheet(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")
	dir := t.TempDir()

	path := filepath.Join(dir, "wrong.xlsx")
	writeWorkbook(t, path, "Otra Hoja", [][]string{{"CAMA"}, {"UCI 301"}})

	_, err := ingest.ImportBeds(context.Background(), pool, log, testConfig(path))
	if err == nil {
		t.Fatal("expected structural error for missing sheet")
	}
	ie, ok := err.(*ingest.ImportError)
	if !ok {
		t.Fatalf("expected ImportError, got %T", err)
	}
	if ie.Phase != ingest.PhaseSheet {
		t.Errorf("phase = %q, want %q", ie.Phase, ingest.PhaseSheet)
	}
}

func TestImportAdmissions(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")
	ctx := context.Background()
	dir := t.TempDir()

	bedPath := bedWorkbook(t, dir, [][]string{{"UCI 301", "301", "NO"}})
	if _, err := ingest.ImportBeds(ctx, pool, log, testConfig(bedPath)); err != nil {
		t.Fatalf("ImportBeds: %v", err)
	}

	casePath := caseWorkbook(t, dir, [][]string{
		// Real identity, known bed, discharged.
		{"30012345", "12.345.678-5", "Juan Pérez Soto", "02/01/1988",
			"20-09-2025 08:15:00", "24-09-2025", "Alta", "UCI 301",
			"Medicina Interna", "7", "", "20-09-2025", "A. Rojas", "dato", ""},
		// Anonymous identity, unknown bed, still admitted.
		{"30012346", "", "", "",
			"21-09-2025", "", "", "CAMA FANTASMA",
			"Cirugía", "", "Paciente no evaluable", "", "", "", ""},
		// No episode identifier: skipped.
		{"", "11.111.111-1", "Ana Díaz", "", "", "", "", "", "", "", "", "", "", "", ""},
	})

	summary, err := ingest.ImportAdmissions(ctx, pool, log, testConfig(casePath))
	if err != nil {
		t.Fatalf("ImportAdmissions: %v", err)
	}
	if summary.RowsRead != 3 || summary.Created != 2 || summary.Skipped != 1 {
		t.Errorf("summary = rows %d created %d skipped %d", summary.RowsRead, summary.Created, summary.Skipped)
	}

	var first, last string
	err = pool.QueryRow(ctx,
		`SELECT first_name, last_name FROM patients WHERE medical_identifier = '12.345.678-5'`).
		Scan(&first, &last)
	if err != nil {
		t.Fatalf("query patient: %v", err)
	}
	if first != "Juan" || last != "Pérez Soto" {
		t.Errorf("patient name = %q %q", first, last)
	}

	// The anonymous row derives its identity from the episode identifier.
	genID := anonymize.Identifier("30012346")
	var genCount int
	pool.QueryRow(ctx, `SELECT count(*) FROM patients WHERE medical_identifier = $1`, genID).Scan(&genCount)
	if genCount != 1 {
		t.Errorf("generated patient with identifier %s not found", genID)
	}

	// Episode with a known bed resolves the reference; unknown bed stays null.
	var withBed, withoutBed int
	pool.QueryRow(ctx, `SELECT count(*) FROM clinical_episodes WHERE episode_identifier = '30012345' AND bed_id IS NOT NULL`).Scan(&withBed)
	pool.QueryRow(ctx, `SELECT count(*) FROM clinical_episodes WHERE episode_identifier = '30012346' AND bed_id IS NULL`).Scan(&withoutBed)
	if withBed != 1 || withoutBed != 1 {
		t.Errorf("bed resolution: withBed=%d withoutBed=%d", withBed, withoutBed)
	}

	var status string
	pool.QueryRow(ctx, `SELECT status FROM clinical_episodes WHERE episode_identifier = '30012345'`).Scan(&status)
	if status != "discharged" {
		t.Errorf("status = %q", status)
	}

	// Information bag keeps the empty column as an explicit null.
	var raw []byte
	err = pool.QueryRow(ctx,
		`SELECT pi.information FROM patient_information pi
		   JOIN patients p ON p.patient_id = pi.patient_id
		  WHERE p.medical_identifier = '12.345.678-5'`).Scan(&raw)
	if err != nil {
		t.Fatalf("query information: %v", err)
	}
	var bag map[string]any
	if err := json.Unmarshal(raw, &bag); err != nil {
		t.Fatalf("unmarshal bag: %v", err)
	}
	v, present := bag["Vacía"]
	if !present || v != nil {
		t.Errorf("empty column should be an explicit null in the bag, got %v (present=%v)", v, present)
	}
	if bag["Columna Rara"] != "dato" {
		t.Errorf("pass-through column = %v", bag["Columna Rara"])
	}

	// Structured episode information records were written.
	var infoCount int
	pool.QueryRow(ctx,
		`SELECT count(*) FROM episode_information ei
		   JOIN clinical_episodes e ON e.episode_id = ei.episode_id
		  WHERE e.episode_identifier = '30012345' AND ei.title = 'Servicio'`).Scan(&infoCount)
	if infoCount != 1 {
		t.Errorf("servicio info records = %d", infoCount)
	}
}

func TestImportAdmissionsPatientFirstWriteWins(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")
	ctx := context.Background()
	dir := t.TempDir()

	row := func(name string) []string {
		return []string{"30012345", "12.345.678-5", name, "02/01/1988",
			"20-09-2025", "", "", "", "", "", "", "", "", "", ""}
	}
	path1 := caseWorkbook(t, dir, [][]string{row("Juan Pérez")})
	if _, err := ingest.ImportAdmissions(ctx, pool, log, testConfig(path1)); err != nil {
		t.Fatalf("first import: %v", err)
	}

	dir2 := t.TempDir()
	path2 := caseWorkbook(t, dir2, [][]string{row("Pedro Soto")})
	summary, err := ingest.ImportAdmissions(ctx, pool, log, testConfig(path2))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if summary.Created != 0 || summary.Updated != 1 {
		t.Errorf("second import summary = created %d updated %d", summary.Created, summary.Updated)
	}

	var first string
	pool.QueryRow(ctx, `SELECT first_name FROM patients WHERE medical_identifier = '12.345.678-5'`).Scan(&first)
	if first != "Juan" {
		t.Errorf("identity should be first-write-wins, got %q", first)
	}

	// Each import still appends a fresh episode.
	var episodes int
	pool.QueryRow(ctx, `SELECT count(*) FROM clinical_episodes`).Scan(&episodes)
	if episodes != 2 {
		t.Errorf("episode count = %d, want 2", episodes)
	}
}

func TestImportScores(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")
	ctx := context.Background()
	dir := t.TempDir()

	casePath := caseWorkbook(t, dir, [][]string{
		{"30012345", "12.345.678-5", "Juan Pérez", "", "20-09-2025", "", "", "", "", "", "", "", "", "", ""},
		{"30012346", "9.876.543-2", "Rosa Díaz", "", "21-09-2025", "", "", "", "", "", "", "", "", "", ""},
	})
	if _, err := ingest.ImportAdmissions(ctx, pool, log, testConfig(casePath)); err != nil {
		t.Fatalf("ImportAdmissions: %v", err)
	}

	scorePath := filepath.Join(dir, "scores.xlsx")
	writeWorkbook(t, scorePath, "Data Casos", [][]string{
		{"Episodio / Estadía", "Puntaje", "Motivo", "Fecha Asignación", "Encuestadora"},
		{"30012345.0", "7", "", "22-09-2025", "A. Rojas"}, // direct, with .0 suffix
		{"9.876.543-2", "", "No evaluable", "", ""},       // via patient identifier
		{"40400404", "5", "", "", ""},                     // unknown episode
	})

	summary, err := ingest.ImportScores(ctx, pool, log, testConfig(scorePath))
	if err != nil {
		t.Fatalf("ImportScores: %v", err)
	}
	if summary.Created != 2 {
		t.Errorf("recorded = %d, want 2", summary.Created)
	}
	if len(summary.MissingIdentifiers) != 1 || summary.MissingIdentifiers[0] != "40400404" {
		t.Errorf("missing = %v", summary.MissingIdentifiers)
	}

	var score *int32
	var recordedBy *string
	err = pool.QueryRow(ctx,
		`SELECT s.score, s.recorded_by FROM social_score_history s
		   JOIN clinical_episodes e ON e.episode_id = s.episode_id
		  WHERE e.episode_identifier = '30012345'`).Scan(&score, &recordedBy)
	if err != nil {
		t.Fatalf("query score: %v", err)
	}
	if score == nil || *score != 7 {
		t.Errorf("score = %v", score)
	}
	if recordedBy == nil || *recordedBy != "A. Rojas" {
		t.Errorf("recorded_by = %v", recordedBy)
	}

	var reason *string
	var nullScore *int32
	err = pool.QueryRow(ctx,
		`SELECT s.score, s.no_score_reason FROM social_score_history s
		   JOIN clinical_episodes e ON e.episode_id = s.episode_id
		  WHERE e.episode_identifier = '30012346'`).Scan(&nullScore, &reason)
	if err != nil {
		t.Fatalf("query reasoned score: %v", err)
	}
	if nullScore != nil {
		t.Errorf("score should be null, got %v", *nullScore)
	}
	if reason == nil || *reason != "No evaluable" {
		t.Errorf("reason = %v", reason)
	}
}

func TestImportScoresLegacyIdentifier(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")
	ctx := context.Background()
	dir := t.TempDir()

	// An episode imported without its own identifier, plus a legacy info
	// record carrying it, as older pipeline versions wrote.
	casePath := caseWorkbook(t, dir, [][]string{
		{"30012399", "12.345.678-5", "Juan Pérez", "", "20-09-2025", "", "", "", "", "", "", "", "", "", ""},
	})
	if _, err := ingest.ImportAdmissions(ctx, pool, log, testConfig(casePath)); err != nil {
		t.Fatalf("ImportAdmissions: %v", err)
	}

	var episodeID uuid.UUID
	if err := pool.QueryRow(ctx, `SELECT episode_id FROM clinical_episodes`).Scan(&episodeID); err != nil {
		t.Fatalf("query episode: %v", err)
	}
	_, err := pool.Exec(ctx,
		`UPDATE clinical_episodes SET episode_identifier = NULL WHERE episode_id = $1`, episodeID)
	if err != nil {
		t.Fatalf("clear identifier: %v", err)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO episode_information (episode_information_id, episode_id, info_kind, title, value)
		 VALUES ($1, $2, 'other', 'Episodio / Estadía', '{"episode_identifier": "30012399"}')`,
		uuid.New(), episodeID)
	if err != nil {
		t.Fatalf("insert legacy record: %v", err)
	}

	scorePath := filepath.Join(dir, "scores.xlsx")
	writeWorkbook(t, scorePath, "Data Casos", [][]string{
		{"Episodio / Estadía", "Puntaje"},
		{"30012399", "4"},
	})
	summary, err := ingest.ImportScores(ctx, pool, log, testConfig(scorePath))
	if err != nil {
		t.Fatalf("ImportScores: %v", err)
	}
	if summary.Created != 1 || len(summary.MissingIdentifiers) != 0 {
		t.Errorf("legacy identifier did not resolve: %+v", summary)
	}
}

func TestImportDischarges(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")
	ctx := context.Background()
	dir := t.TempDir()

	casePath := caseWorkbook(t, dir, [][]string{
		{"30012345", "12.345.678-5", "Juan Pérez", "", "20-09-2025", "", "", "", "", "", "", "", "", "", ""},
	})
	if _, err := ingest.ImportAdmissions(ctx, pool, log, testConfig(casePath)); err != nil {
		t.Fatalf("ImportAdmissions: %v", err)
	}

	dischargePath := filepath.Join(dir, "uccc.xlsx")
	writeWorkbook(t, dischargePath, "UCCC", [][]string{
		{"Episodio", "Fecha del alta", "Fecha Alta Probable", "Estado de alta"},
		{"30012345", "24-09-2025", "25-09-2025", "Alta"},
		{"70707070", "24-09-2025", "", ""},
	})

	summary, err := ingest.ImportDischarges(ctx, pool, log, testConfig(dischargePath))
	if err != nil {
		t.Fatalf("ImportDischarges: %v", err)
	}
	if summary.Updated != 1 || len(summary.MissingIdentifiers) != 1 {
		t.Errorf("summary = updated %d missing %v", summary.Updated, summary.MissingIdentifiers)
	}

	var status string
	var dischargeAt *time.Time
	err = pool.QueryRow(ctx,
		`SELECT status, discharge_at FROM clinical_episodes WHERE episode_identifier = '30012345'`).
		Scan(&status, &dischargeAt)
	if err != nil {
		t.Fatalf("query episode: %v", err)
	}
	if status != "discharged" {
		t.Errorf("status after backfill = %q", status)
	}
	if dischargeAt == nil {
		t.Error("discharge_at not backfilled")
	}
}

func TestImportGRD(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")
	ctx := context.Background()
	dir := t.TempDir()

	casePath := caseWorkbook(t, dir, [][]string{
		{"30012345", "12.345.678-5", "Juan Pérez", "", "20-09-2025", "", "", "", "", "", "", "", "", "", ""},
	})
	if _, err := ingest.ImportAdmissions(ctx, pool, log, testConfig(casePath)); err != nil {
		t.Fatalf("ImportAdmissions: %v", err)
	}

	grdPath := filepath.Join(dir, "grd.xlsx")
	writeWorkbook(t, grdPath, "egresos 2024-2025", [][]string{
		{"Episodio CMBD", "Estancia Norma GRD"},
		{"30012345.0", "7"},
		{"80808080", "4"},
	})

	summary, err := ingest.ImportGRD(ctx, pool, log, testConfig(grdPath))
	if err != nil {
		t.Fatalf("ImportGRD: %v", err)
	}
	if summary.Updated != 1 {
		t.Errorf("updated = %d, want 1", summary.Updated)
	}
	if len(summary.MissingIdentifiers) != 1 || summary.MissingIdentifiers[0] != "80808080" {
		t.Errorf("missing = %v", summary.MissingIdentifiers)
	}

	var days *int32
	err = pool.QueryRow(ctx,
		`SELECT grd_expected_days FROM clinical_episodes WHERE episode_identifier = '30012345'`).Scan(&days)
	if err != nil {
		t.Fatalf("query episode: %v", err)
	}
	if days == nil || *days != 7 {
		t.Errorf("grd_expected_days = %v", days)
	}

	// A newer norm export replaces the stored value.
	grdPath2 := filepath.Join(dir, "grd2.xlsx")
	writeWorkbook(t, grdPath2, "egresos 2024-2025", [][]string{
		{"Episodio CMBD", "Estancia Norma GRD"},
		{"30012345", "9"},
	})
	if _, err := ingest.ImportGRD(ctx, pool, log, testConfig(grdPath2)); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	pool.QueryRow(ctx, `SELECT grd_expected_days FROM clinical_episodes WHERE episode_identifier = '30012345'`).Scan(&days)
	if days == nil || *days != 9 {
		t.Errorf("grd_expected_days after re-import = %v", days)
	}
}

func TestImportAll(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")
	ctx := context.Background()
	dir := t.TempDir()

	bedPath := bedWorkbook(t, dir, [][]string{{"UCI 301", "301", "NO"}})
	casePath := caseWorkbook(t, dir, [][]string{
		{"30012345", "12.345.678-5", "Juan Pérez", "02/01/1988",
			"20-09-2025", "", "", "UCI 301", "Medicina", "7", "", "20-09-2025", "A. Rojas", "", ""},
	})

	cfg := config.New()
	cfg.DSN = testDSN
	cfg.BedsFile = bedPath
	cfg.CasesFile = casePath

	summaries, err := ingest.ImportAll(ctx, pool, log, cfg)
	if err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}

	var beds, episodes, scores int
	pool.QueryRow(ctx, `SELECT count(*) FROM beds`).Scan(&beds)
	pool.QueryRow(ctx, `SELECT count(*) FROM clinical_episodes`).Scan(&episodes)
	pool.QueryRow(ctx, `SELECT count(*) FROM social_score_history`).Scan(&scores)
	if beds != 1 || episodes != 1 || scores != 1 {
		t.Errorf("beds=%d episodes=%d scores=%d, want 1 each", beds, episodes, scores)
	}
}
