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

// ImportBeds loads the bed roster sheet. Beds are upserted by room name, so
// re-importing the same roster is idempotent.
func ImportBeds(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.ImportSummary, error) {
	start := time.Now()
	summary := &model.ImportSummary{
		BatchID: uuid.NewString(),
		File:    cfg.File,
		Sheet:   cfg.Sheets.Beds,
	}
	log = log.With().Str("batch", summary.BatchID).Str("import", "beds").Logger()

	wb, err := sheet.Open(cfg.File)
	if err != nil {
		return nil, phaseErr(PhaseOpen, err)
	}
	defer wb.Close()

	tbl, err := wb.Sheet(cfg.Sheets.Beds)
	if err != nil {
		return nil, phaseErr(PhaseSheet, err)
	}
	parse.BedFields.Apply(tbl)
	summary.RowsRead = tbl.Len()

	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		st := store.New(tx, log)
		for i := 0; i < tbl.Len(); i++ {
			draft, err := parse.Bed(tbl.Row(i))
			if err != nil {
				log.Warn().Err(err).Int("row", i+1).Msg("skipping bed row")
				summary.Skipped++
				continue
			}
			bed := model.Bed{Room: draft.Room, Active: draft.Active, Available: draft.Available}
			created, err := st.UpsertBed(ctx, &bed)
			if err != nil {
				return err
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
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
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Dur("duration", summary.Duration).
		Msg("bed import complete")
	return summary, nil
}
