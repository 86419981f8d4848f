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

// ImportDischarges backfills discharge dates, expected discharges, and
// statuses from the stay-management export onto already-imported episodes.
func ImportDischarges(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.ImportSummary, error) {
	start := time.Now()
	summary := &model.ImportSummary{
		BatchID: uuid.NewString(),
		File:    cfg.File,
		Sheet:   cfg.Sheets.Discharges,
	}
	log = log.With().Str("batch", summary.BatchID).Str("import", "discharges").Logger()

	wb, err := sheet.Open(cfg.File)
	if err != nil {
		return nil, phaseErr(PhaseOpen, err)
	}
	defer wb.Close()

	tbl, err := wb.Sheet(cfg.Sheets.Discharges)
	if err != nil {
		return nil, phaseErr(PhaseSheet, err)
	}
	parse.DischargeFields.Apply(tbl)
	summary.RowsRead = tbl.Len()

	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		st := store.New(tx, log)
		rec, err := BuildReconciler(ctx, st)
		if err != nil {
			return phaseErr(PhaseReconcile, err)
		}

		for i := 0; i < tbl.Len(); i++ {
			draft, err := parse.Discharge(tbl.Row(i))
			if err != nil {
				log.Warn().Err(err).Int("row", i+1).Msg("skipping discharge row")
				summary.Skipped++
				continue
			}
			episodeID, ok := rec.Resolve(draft.EpisodeIdentifier)
			if !ok {
				log.Warn().Str("identifier", draft.EpisodeIdentifier).Int("row", i+1).
					Msg("no episode for discharge row")
				summary.MissingIdentifiers = append(summary.MissingIdentifiers, draft.EpisodeIdentifier)
				summary.Skipped++
				continue
			}
			if err := st.UpdateEpisodeDischarge(ctx, episodeID, draft.DischargeAt, draft.ExpectedDischarge, draft.Status); err != nil {
				return err
			}
			summary.Updated++
		}
		return nil
	})
	if err != nil {
		if pe, ok := err.(*ImportError); ok {
			return nil, pe
		}
		return nil, phaseErr(PhasePersist, err)
	}

	summary.Duration = time.Since(start)
	log.Info().
		Int("rows", summary.RowsRead).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("missing", len(summary.MissingIdentifiers)).
		Dur("duration", summary.Duration).
		Msg("discharge import complete")
	return summary, nil
}
