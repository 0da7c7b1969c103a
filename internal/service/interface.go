package service

import (
	"context"

	"github.com/kg6zjl/derbylive/internal/domain"
	"github.com/kg6zjl/derbylive/internal/hub"
)

// ResultService owns the live race state: the race id counter, the current
// race's result cache, and the broadcast of both to connected viewers.
type ResultService interface {
	// Start initialises the race id counter from the store: one past the
	// highest race id ever recorded, or 1 for an empty store. The result
	// cache always starts empty, even when durable history exists.
	Start(ctx context.Context) error

	// CurrentRaceID returns the active race id.
	CurrentRaceID() int64

	// PublishResults validates a raw position→lane submission, records it
	// durably under the current race id, replaces the cached snapshot, and
	// broadcasts a new_results event to the room. Returns the race id the
	// submission was recorded under and the normalised snapshot.
	PublishResults(ctx context.Context, raw map[string]string) (int64, domain.Snapshot, error)

	// ResetRace advances the race id, clears the cached snapshot, and
	// broadcasts a reset_results event. It cannot fail; the returned error
	// is always nil. Returns the new race id.
	ResetRace(ctx context.Context) (int64, error)

	// HandleConnect registers a viewer connection and, if the current race
	// already has results, sends that viewer (only) a new_results event.
	HandleConnect(ctx context.Context, client *hub.Client) error

	// HandleDisconnect removes a viewer connection. Safe to call for a
	// client that is already gone.
	HandleDisconnect(ctx context.Context, client *hub.Client) error

	// ListRaces returns every recorded race, most recent first.
	ListRaces(ctx context.Context) ([]domain.RaceSummary, error)

	// GetRace returns one recorded race.
	GetRace(ctx context.Context, raceID int64) (*domain.RaceDetail, error)
}
