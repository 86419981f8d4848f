package ingest

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/clinicops/censoload/internal/config"
	"github.com/clinicops/censoload/internal/model"
)

// ImportAll runs the imports in dependency order: beds first so episode
// rows can resolve their rooms, then admissions, then scores against the
// episodes just created. It stops at the first batch failure; completed
// batches stay committed.
func ImportAll(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) ([]*model.ImportSummary, error) {
	var summaries []*model.ImportSummary

	bedCfg := *cfg
	bedCfg.File = cfg.BedsFile
	s, err := ImportBeds(ctx, pool, log, &bedCfg)
	if err != nil {
		return summaries, err
	}
	summaries = append(summaries, s)

	caseCfg := *cfg
	caseCfg.File = cfg.CasesFile
	s, err = ImportAdmissions(ctx, pool, log, &caseCfg)
	if err != nil {
		return summaries, err
	}
	summaries = append(summaries, s)

	s, err = ImportScores(ctx, pool, log, &caseCfg)
	if err != nil {
		return summaries, err
	}
	summaries = append(summaries, s)

	return summaries, nil
}
