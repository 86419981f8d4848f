package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicops/censoload/internal/normalize"
	"github.com/clinicops/censoload/internal/store"
)

// Reconciler maps external episode identifiers onto stored episode keys.
// It is rebuilt from the database at the start of every run; imports never
// mutate it mid-batch.
type Reconciler struct {
	byIdentifier map[string]uuid.UUID
}

// NewReconciler layers three identifier sources, earlier layers winning:
// the episode's own identifier, identifiers recorded in legacy information
// records, and finally the owning patient's medical identifier (filling
// gaps only, since one patient can have many episodes).
func NewReconciler(refs []store.EpisodeRef, legacy []store.LegacyIdentifier) *Reconciler {
	r := &Reconciler{byIdentifier: make(map[string]uuid.UUID)}
	for _, ref := range refs {
		if ref.EpisodeIdentifier != nil {
			r.add(*ref.EpisodeIdentifier, ref.EpisodeID)
		}
	}
	for _, l := range legacy {
		r.add(l.Identifier, l.EpisodeID)
	}
	for _, ref := range refs {
		r.add(ref.PatientIdentifier, ref.EpisodeID)
	}
	return r
}

// add normalizes and records an identifier unless an earlier layer already
// claimed it.
func (r *Reconciler) add(raw string, episodeID uuid.UUID) {
	id, ok := normalize.Identifier(raw)
	if !ok {
		return
	}
	if _, exists := r.byIdentifier[id]; !exists {
		r.byIdentifier[id] = episodeID
	}
}

// Resolve maps a (already normalized) external identifier to an episode.
func (r *Reconciler) Resolve(identifier string) (uuid.UUID, bool) {
	id, ok := r.byIdentifier[identifier]
	return id, ok
}

// Len reports how many identifiers resolve.
func (r *Reconciler) Len() int { return len(r.byIdentifier) }

// BuildReconciler loads both identifier sources from the store.
func BuildReconciler(ctx context.Context, st *store.Store) (*Reconciler, error) {
	refs, err := st.ListEpisodeRefs(ctx)
	if err != nil {
		return nil, err
	}
	legacy, err := st.ListLegacyEpisodeIdentifiers(ctx)
	if err != nil {
		return nil, err
	}
	return NewReconciler(refs, legacy), nil
}
