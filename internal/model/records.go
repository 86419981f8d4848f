package model

import (
	"time"

	"github.com/google/uuid"
)

// Bed is one physical bed, keyed by its room name. Imports only ever
// create or update beds; nothing in the loader deletes them.
type Bed struct {
	ID        uuid.UUID
	Room      string
	Active    bool
	Available bool
}

// Patient is the canonical patient record. MedicalIdentifier uniquely
// determines a patient: re-importing the same identifier updates related
// records but never duplicates the patient, and identity fields are
// first-write-wins.
type Patient struct {
	ID                uuid.UUID
	MedicalIdentifier string
	FirstName         string
	LastName          string
	// RawIdentifier preserves the identifier as it appeared in the source
	// (or the generated one when the source had none).
	RawIdentifier string
	BirthDate     time.Time
	Gender        string
}

// PatientInformation is the 1:1 open bag of source columns that did not map
// to a canonical patient field. The whole bag is replaced on re-import.
type PatientInformation struct {
	ID          uuid.UUID
	PatientID   uuid.UUID
	Information InfoBag
}

// ClinicalEpisode is one admission. EpisodeIdentifier is the external key
// used to reconcile rows across separate sheets; it is nullable because
// manually created episodes may not have one.
type ClinicalEpisode struct {
	ID                uuid.UUID
	PatientID         uuid.UUID
	BedID             *uuid.UUID
	EpisodeIdentifier *string
	Status            EpisodeStatus
	AdmissionAt       time.Time
	DischargeAt       *time.Time
	ExpectedDischarge *time.Time
}

// EpisodeInformation is one structured note attached to an episode.
// Records are created by imports and never updated.
type EpisodeInformation struct {
	ID        uuid.UUID
	EpisodeID uuid.UUID
	Kind      InfoKind
	Title     string
	Value     InfoBag
}

// SocialScore is one social-risk survey result for an episode. Score is
// nullable; NoScoreReason carries the surveyor's free-text reason when no
// score was assigned.
type SocialScore struct {
	ID            uuid.UUID
	EpisodeID     uuid.UUID
	Score         *int32
	NoScoreReason *string
	RecordedAt    time.Time
	RecordedBy    *string
}
