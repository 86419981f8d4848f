// Package store persists canonical records inside one batch transaction.
// Each upsert method implements the collision policy of its entity: beds
// update in place, patients are first-write-wins, patient information is
// replaced wholesale, episodes and their records are append-only.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/clinicops/censoload/internal/model"
)

// Store wraps a transaction with the loader's queries. One Store serves one
// import batch; the caller owns commit and rollback via db.WithTx.
type Store struct {
	tx  pgx.Tx
	log zerolog.Logger
}

func New(tx pgx.Tx, log zerolog.Logger) *Store {
	return &Store{tx: tx, log: log}
}

// UpsertBed creates the bed or refreshes its active/available flags when a
// bed with the same room already exists. Reports whether it created.
func (s *Store) UpsertBed(ctx context.Context, bed *model.Bed) (bool, error) {
	var id uuid.UUID
	err := s.tx.QueryRow(ctx,
		`SELECT bed_id FROM beds WHERE room = $1`, bed.Room).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		bed.ID = uuid.New()
		_, err = s.tx.Exec(ctx,
			`INSERT INTO beds (bed_id, room, active, available) VALUES ($1, $2, $3, $4)`,
			bed.ID, bed.Room, bed.Active, bed.Available)
		if err != nil {
			return false, fmt.Errorf("insert bed %q: %w", bed.Room, err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("lookup bed %q: %w", bed.Room, err)
	}

	bed.ID = id
	_, err = s.tx.Exec(ctx,
		`UPDATE beds SET active = $2, available = $3, updated_at = now() WHERE bed_id = $1`,
		id, bed.Active, bed.Available)
	if err != nil {
		return false, fmt.Errorf("update bed %q: %w", bed.Room, err)
	}
	return false, nil
}

// GetOrCreatePatient resolves the patient by medical identifier. When the
// patient exists, the stored identity wins and p is overwritten with it;
// the incoming identity fields are ignored.
func (s *Store) GetOrCreatePatient(ctx context.Context, p *model.Patient) (bool, error) {
	var existing model.Patient
	err := s.tx.QueryRow(ctx,
		`SELECT patient_id, medical_identifier, first_name, last_name, raw_identifier, birth_date, gender
		   FROM patients WHERE medical_identifier = $1`, p.MedicalIdentifier).
		Scan(&existing.ID, &existing.MedicalIdentifier, &existing.FirstName,
			&existing.LastName, &existing.RawIdentifier, &existing.BirthDate, &existing.Gender)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		p.ID = uuid.New()
		_, err = s.tx.Exec(ctx,
			`INSERT INTO patients (patient_id, medical_identifier, first_name, last_name, raw_identifier, birth_date, gender)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.MedicalIdentifier, p.FirstName, p.LastName, p.RawIdentifier, p.BirthDate, p.Gender)
		if err != nil {
			return false, fmt.Errorf("insert patient %s: %w", p.MedicalIdentifier, err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("lookup patient %s: %w", p.MedicalIdentifier, err)
	}

	*p = existing
	return false, nil
}

// UpsertPatientInformation replaces the patient's information bag. The bag
// is 1:1 with the patient and the latest import wins wholesale.
func (s *Store) UpsertPatientInformation(ctx context.Context, patientID uuid.UUID, bag model.InfoBag) error {
	data, err := json.Marshal(bag)
	if err != nil {
		return fmt.Errorf("marshal patient information: %w", err)
	}
	_, err = s.tx.Exec(ctx,
		`INSERT INTO patient_information (patient_information_id, patient_id, information)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (patient_id) DO UPDATE
		 SET information = EXCLUDED.information, updated_at = now()`,
		uuid.New(), patientID, data)
	if err != nil {
		return fmt.Errorf("upsert patient information: %w", err)
	}
	return nil
}

// InsertEpisode writes a fresh episode. The bed reference is resolved from
// bedRoom by name; an unknown room logs a warning and leaves the reference
// null rather than failing the row.
func (s *Store) InsertEpisode(ctx context.Context, ep *model.ClinicalEpisode, bedRoom *string) error {
	if bedRoom != nil {
		var bedID uuid.UUID
		err := s.tx.QueryRow(ctx,
			`SELECT bed_id FROM beds WHERE room = $1`, *bedRoom).Scan(&bedID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			s.log.Warn().Str("room", *bedRoom).Msg("bed not found, episode stored without bed")
		case err != nil:
			return fmt.Errorf("lookup bed %q: %w", *bedRoom, err)
		default:
			ep.BedID = &bedID
		}
	}

	ep.ID = uuid.New()
	_, err := s.tx.Exec(ctx,
		`INSERT INTO clinical_episodes
		   (episode_id, patient_id, bed_id, episode_identifier, status, admission_at, discharge_at, expected_discharge)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ep.ID, ep.PatientID, ep.BedID, ep.EpisodeIdentifier, string(ep.Status),
		ep.AdmissionAt, ep.DischargeAt, ep.ExpectedDischarge)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}
	return nil
}

// InsertEpisodeInformation appends one information record to an episode.
func (s *Store) InsertEpisodeInformation(ctx context.Context, episodeID uuid.UUID, kind model.InfoKind, title string, value model.InfoBag) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal episode information %q: %w", title, err)
	}
	_, err = s.tx.Exec(ctx,
		`INSERT INTO episode_information (episode_information_id, episode_id, info_kind, title, value)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), episodeID, string(kind), title, data)
	if err != nil {
		return fmt.Errorf("insert episode information %q: %w", title, err)
	}
	return nil
}

// InsertSocialScore appends one survey result to the score history.
func (s *Store) InsertSocialScore(ctx context.Context, sc *model.SocialScore) error {
	sc.ID = uuid.New()
	_, err := s.tx.Exec(ctx,
		`INSERT INTO social_score_history (social_score_id, episode_id, score, no_score_reason, recorded_at, recorded_by)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sc.ID, sc.EpisodeID, sc.Score, sc.NoScoreReason, sc.RecordedAt, sc.RecordedBy)
	if err != nil {
		return fmt.Errorf("insert social score: %w", err)
	}
	return nil
}

// UpdateEpisodeDischarge backfills discharge fields onto an episode.
// Nil arguments leave the stored values untouched.
func (s *Store) UpdateEpisodeDischarge(ctx context.Context, episodeID uuid.UUID, dischargeAt, expectedDischarge *time.Time, status *model.EpisodeStatus) error {
	var st *string
	if status != nil {
		v := string(*status)
		st = &v
	}
	_, err := s.tx.Exec(ctx,
		`UPDATE clinical_episodes
		    SET discharge_at = COALESCE($2, discharge_at),
		        expected_discharge = COALESCE($3, expected_discharge),
		        status = COALESCE($4, status),
		        updated_at = now()
		  WHERE episode_id = $1`,
		episodeID, dischargeAt, expectedDischarge, st)
	if err != nil {
		return fmt.Errorf("update episode discharge: %w", err)
	}
	return nil
}

// UpdateEpisodeGRD writes the GRD norm's expected stay days onto an
// episode. The latest norm export wins.
func (s *Store) UpdateEpisodeGRD(ctx context.Context, episodeID uuid.UUID, expectedDays int32) error {
	_, err := s.tx.Exec(ctx,
		`UPDATE clinical_episodes
		    SET grd_expected_days = $2,
		        updated_at = now()
		  WHERE episode_id = $1`,
		episodeID, expectedDays)
	if err != nil {
		return fmt.Errorf("update episode expected stay: %w", err)
	}
	return nil
}

// EpisodeRef is the reconciler's view of one stored episode.
type EpisodeRef struct {
	EpisodeID         uuid.UUID
	EpisodeIdentifier *string
	PatientIdentifier string
}

// ListEpisodeRefs returns every episode with its own identifier and its
// owning patient's medical identifier.
func (s *Store) ListEpisodeRefs(ctx context.Context) ([]EpisodeRef, error) {
	rows, err := s.tx.Query(ctx,
		`SELECT e.episode_id, e.episode_identifier, p.medical_identifier
		   FROM clinical_episodes e
		   JOIN patients p ON p.patient_id = e.patient_id
		  ORDER BY e.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list episode refs: %w", err)
	}
	defer rows.Close()

	var refs []EpisodeRef
	for rows.Next() {
		var r EpisodeRef
		if err := rows.Scan(&r.EpisodeID, &r.EpisodeIdentifier, &r.PatientIdentifier); err != nil {
			return nil, fmt.Errorf("scan episode ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// LegacyIdentifier is an episode identifier recorded by older pipeline
// versions as an information record instead of on the episode row.
type LegacyIdentifier struct {
	EpisodeID  uuid.UUID
	Identifier string
}

// ListLegacyEpisodeIdentifiers returns identifiers embedded in legacy
// "Episodio / Estadía" information records. These are read for
// reconciliation only; new imports no longer write them.
func (s *Store) ListLegacyEpisodeIdentifiers(ctx context.Context) ([]LegacyIdentifier, error) {
	rows, err := s.tx.Query(ctx,
		`SELECT episode_id, value->>'episode_identifier'
		   FROM episode_information
		  WHERE title = 'Episodio / Estadía'
		    AND value->>'episode_identifier' IS NOT NULL
		  ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list legacy identifiers: %w", err)
	}
	defer rows.Close()

	var out []LegacyIdentifier
	for rows.Next() {
		var l LegacyIdentifier
		if err := rows.Scan(&l.EpisodeID, &l.Identifier); err != nil {
			return nil, fmt.Errorf("scan legacy identifier: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
