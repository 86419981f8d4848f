package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/clinicops/censoload/internal/config"
	"github.com/clinicops/censoload/internal/db"
	"github.com/clinicops/censoload/internal/model"
	"github.com/clinicops/censoload/internal/parse"
	"github.com/clinicops/censoload/internal/sheet"
	"github.com/clinicops/censoload/internal/store"
)

// ImportAdmissions loads the case sheet: patients (get-or-create by medical
// identifier), their information bags (replaced), and a fresh clinical
// episode per row with its structured information records.
func ImportAdmissions(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.ImportSummary, error) {
	start := time.Now()
	summary := &model.ImportSummary{
		BatchID: uuid.NewString(),
		File:    cfg.File,
		Sheet:   cfg.Sheets.Cases,
	}
	log = log.With().Str("batch", summary.BatchID).Str("import", "admissions").Logger()

	wb, err := sheet.Open(cfg.File)
	if err != nil {
		return nil, phaseErr(PhaseOpen, err)
	}
	defer wb.Close()

	tbl, err := wb.Sheet(cfg.Sheets.Cases)
	if err != nil {
		return nil, phaseErr(PhaseSheet, err)
	}
	parse.CaseFields.Apply(tbl)
	summary.RowsRead = tbl.Len()

	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		st := store.New(tx, log)
		for i := 0; i < tbl.Len(); i++ {
			row := tbl.Row(i)

			pd, err := parse.Patient(row)
			if err != nil {
				log.Warn().Err(err).Int("row", i+1).Msg("skipping case row")
				summary.Skipped++
				continue
			}
			ed := parse.Episode(row, time.Now())

			patient := model.Patient{
				MedicalIdentifier: pd.MedicalIdentifier,
				FirstName:         pd.FirstName,
				LastName:          pd.LastName,
				RawIdentifier:     pd.RawIdentifier,
				BirthDate:         pd.BirthDate,
				Gender:            pd.Gender,
			}
			created, err := st.GetOrCreatePatient(ctx, &patient)
			if err != nil {
				return err
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}

			if err := st.UpsertPatientInformation(ctx, patient.ID, parse.PatientInfoBag(row)); err != nil {
				return err
			}

			episode := model.ClinicalEpisode{
				PatientID:         patient.ID,
				EpisodeIdentifier: ed.EpisodeIdentifier,
				Status:            ed.Status,
				AdmissionAt:       ed.AdmissionAt,
				DischargeAt:       ed.DischargeAt,
				ExpectedDischarge: ed.ExpectedDischarge,
			}
			if err := st.InsertEpisode(ctx, &episode, ed.BedRoom); err != nil {
				return err
			}

			for _, rec := range parse.EpisodeInfoRecords(row) {
				if err := st.InsertEpisodeInformation(ctx, episode.ID, rec.Kind, rec.Title, rec.Value); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, phaseErr(PhasePersist, err)
	}

	summary.Duration = time.Since(start)
	log.Info().
		Int("rows", summary.RowsRead).
		Int("patients_created", summary.Created).
		Int("patients_existing", summary.Updated).
		Int("skipped", summary.Skipped).
		Dur("duration", summary.Duration).
		Msg("admission import complete")
	return summary, nil
}
