package model

import "strings"

// EpisodeStatus is the closed set of clinical episode states.
type EpisodeStatus string

const (
	StatusActive      EpisodeStatus = "active"
	StatusDischarged  EpisodeStatus = "discharged"
	StatusTransferred EpisodeStatus = "transferred"
	StatusCancelled   EpisodeStatus = "cancelled"
)

// ClassifyStatus maps a free-text discharge-status cell onto an
// EpisodeStatus. Matching is case-insensitive substring matching over the
// vocabulary the census exports actually use. An empty status cell combined
// with a discharge date means the episode is discharged; an empty cell with
// no discharge date means it is still active. Unrecognized text stays
// active.
func ClassifyStatus(raw string, hasDischarge bool) EpisodeStatus {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		if hasDischarge {
			return StatusDischarged
		}
		return StatusActive
	}
	switch {
	case strings.Contains(s, "ALTA"):
		return StatusDischarged
	case strings.Contains(s, "TRANSFERIDO") || strings.Contains(s, "TRANSFER"):
		return StatusTransferred
	case strings.Contains(s, "CANCELADO") || strings.Contains(s, "CANCEL"):
		return StatusCancelled
	}
	return StatusActive
}

// InfoKind categorizes an episode information record.
type InfoKind string

const (
	InfoDiagnosis  InfoKind = "diagnosis"
	InfoTreatment  InfoKind = "treatment"
	InfoMedication InfoKind = "medication"
	InfoNotes      InfoKind = "notes"
	InfoOther      InfoKind = "other"
)
