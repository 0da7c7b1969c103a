package repository

import (
	"context"
	"errors"

	"github.com/kg6zjl/derbylive/internal/domain"
)

var (
	ErrRaceNotFound = errors.New("race not found")
)

// ResultRepository defines the interface for durable race result persistence.
// The store is append-only and deduplicated: a (race_id, lane, position)
// triple is recorded at most once.
type ResultRepository interface {
	// Append records one row per entry under the given race id. Entries
	// whose triple already exists are skipped silently; any other failure
	// aborts the batch with the remaining entries not attempted.
	Append(ctx context.Context, raceID int64, entries domain.Snapshot) error

	// ListRaces returns the aggregated mapping for every recorded race,
	// most recent race first.
	ListRaces(ctx context.Context) ([]domain.RaceSummary, error)

	// GetRace returns the aggregated mapping and earliest recorded_at for
	// one race, or ErrRaceNotFound if no rows exist for the id.
	GetRace(ctx context.Context, raceID int64) (*domain.RaceDetail, error)

	// MaxRaceID returns the highest race id ever recorded, or 0 for an
	// empty store.
	MaxRaceID(ctx context.Context) (int64, error)
}
