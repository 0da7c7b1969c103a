package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/kg6zjl/derbylive/internal/audit"
	"github.com/kg6zjl/derbylive/internal/domain"
	"github.com/kg6zjl/derbylive/internal/hub"
	"github.com/kg6zjl/derbylive/internal/repository"
	"github.com/kg6zjl/derbylive/pkg/log"
)

type resultService struct {
	repo repository.ResultRepository
	hub  *hub.Hub

	// mu guards raceID and latest. Publish, reset, and connect all take it,
	// so a reset cannot interleave with a publish and every connecting
	// viewer sees either the pre- or post-state of an in-flight operation.
	mu     sync.Mutex
	raceID int64
	latest domain.Snapshot
}

// NewResultService creates the result service. Call Start before use.
func NewResultService(repo repository.ResultRepository, h *hub.Hub) ResultService {
	return &resultService{
		repo: repo,
		hub:  h,
	}
}

func (s *resultService) Start(ctx context.Context) error {
	max, err := s.repo.MaxRaceID(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialise race id: %w", err)
	}

	s.mu.Lock()
	s.raceID = max + 1
	s.latest = nil
	s.mu.Unlock()

	l := log.Ctx(ctx)
	l.Info().Int64(log.FieldRaceID, max+1).Msg("result service started")
	return nil
}

func (s *resultService) CurrentRaceID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raceID
}

func (s *resultService) PublishResults(ctx context.Context, raw map[string]string) (int64, domain.Snapshot, error) {
	snap, err := domain.ParseSnapshot(raw)
	if err != nil {
		return 0, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raceID := s.raceID
	if err := s.repo.Append(ctx, raceID, snap); err != nil {
		// The cache stays untouched on a hard store failure.
		return 0, nil, fmt.Errorf("failed to record results: %w", err)
	}

	// The cache reflects the submission even when individual entries were
	// skipped as duplicates in the store.
	s.latest = snap.Clone()

	// Best-effort fan-out; delivery failures never fail the publish.
	if err := s.hub.Broadcast(domain.NewResultsMessage(snap.Clone())); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Int64(log.FieldRaceID, raceID).Msg("failed to broadcast results")
	}

	audit.LogRace(ctx, audit.ActionPublish, raceID, "results published")
	return raceID, snap, nil
}

func (s *resultService) ResetRace(ctx context.Context) (int64, error) {
	s.mu.Lock()
	s.raceID++
	next := s.raceID
	s.latest = nil
	if err := s.hub.Broadcast(domain.NewResetMessage()); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("failed to broadcast reset")
	}
	s.mu.Unlock()

	audit.LogRace(ctx, audit.ActionReset, next, "results reset")
	return next, nil
}

func (s *resultService) HandleConnect(ctx context.Context, client *hub.Client) error {
	s.mu.Lock()
	s.hub.Register(client)
	// Late-join sync: hand the connecting viewer the current race state so
	// it is never stale while waiting for the next publish. Done under the
	// mutex so the snapshot and subsequent broadcasts arrive in order.
	synced := false
	if len(s.latest) > 0 {
		client.SendMessage(domain.NewResultsMessage(s.latest.Clone()))
		synced = true
	}
	s.mu.Unlock()

	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldClientID, client.ID).
		Bool("synced", synced).
		Int("active", s.hub.ClientCount()).
		Msg("viewer connected")
	audit.LogClient(ctx, audit.ActionConnect, client.ID, "viewer connected")
	return nil
}

func (s *resultService) HandleDisconnect(ctx context.Context, client *hub.Client) error {
	s.hub.Unregister(client)
	audit.LogClient(ctx, audit.ActionDisconnect, client.ID, "viewer disconnected")
	return nil
}

func (s *resultService) ListRaces(ctx context.Context) ([]domain.RaceSummary, error) {
	return s.repo.ListRaces(ctx)
}

func (s *resultService) GetRace(ctx context.Context, raceID int64) (*domain.RaceDetail, error) {
	return s.repo.GetRace(ctx, raceID)
}
