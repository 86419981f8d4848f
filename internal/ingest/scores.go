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

// ImportScores loads the social-score survey sheet. Rows are matched to
// stored episodes through the reconciler; unmatched identifiers are
// reported, not fatal.
func ImportScores(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.ImportSummary, error) {
	start := time.Now()
	summary := &model.ImportSummary{
		BatchID: uuid.NewString(),
		File:    cfg.File,
		Sheet:   cfg.Sheets.Scores,
	}
	log = log.With().Str("batch", summary.BatchID).Str("import", "scores").Logger()

	wb, err := sheet.Open(cfg.File)
	if err != nil {
		return nil, phaseErr(PhaseOpen, err)
	}
	defer wb.Close()

	tbl, err := wb.Sheet(cfg.Sheets.Scores)
	if err != nil {
		return nil, phaseErr(PhaseSheet, err)
	}
	parse.ScoreFields.Apply(tbl)
	summary.RowsRead = tbl.Len()

	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		st := store.New(tx, log)
		rec, err := BuildReconciler(ctx, st)
		if err != nil {
			return phaseErr(PhaseReconcile, err)
		}
		log.Debug().Int("identifiers", rec.Len()).Msg("reconciler built")

		for i := 0; i < tbl.Len(); i++ {
			draft, err := parse.Score(tbl.Row(i), time.Now())
			if err != nil {
				log.Warn().Err(err).Int("row", i+1).Msg("skipping score row")
				summary.Skipped++
				continue
			}
			episodeID, ok := rec.Resolve(draft.EpisodeIdentifier)
			if !ok {
				log.Warn().Str("identifier", draft.EpisodeIdentifier).Int("row", i+1).
					Msg("no episode for score row")
				summary.MissingIdentifiers = append(summary.MissingIdentifiers, draft.EpisodeIdentifier)
				summary.Skipped++
				continue
			}
			score := model.SocialScore{
				EpisodeID:     episodeID,
				Score:         draft.Score,
				NoScoreReason: draft.NoScoreReason,
				RecordedAt:    draft.RecordedAt,
				RecordedBy:    draft.RecordedBy,
			}
			if err := st.InsertSocialScore(ctx, &score); err != nil {
				return err
			}
			summary.Created++
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
		Int("recorded", summary.Created).
		Int("skipped", summary.Skipped).
		Int("missing", len(summary.MissingIdentifiers)).
		Dur("duration", summary.Duration).
		Msg("score import complete")
	return summary, nil
}
