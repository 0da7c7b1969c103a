package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kg6zjl/derbylive/internal/domain"
)

func newTestRepo(t *testing.T) *GormResultRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// One in-memory database per test: keep it pinned to a single connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.ResultModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewGormResultRepository(db)
}

func TestAppendAndGetRace(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Append(ctx, 1, domain.Snapshot{
		domain.PositionFirst:  "3",
		domain.PositionSecond: "1",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	race, err := repo.GetRace(ctx, 1)
	if err != nil {
		t.Fatalf("GetRace: %v", err)
	}
	if race.RaceID != 1 {
		t.Errorf("RaceID = %d, want 1", race.RaceID)
	}
	if race.Results[domain.PositionFirst] != "3" || race.Results[domain.PositionSecond] != "1" {
		t.Errorf("Results = %v", race.Results)
	}
	if race.RecordedAt.IsZero() {
		t.Error("RecordedAt not set")
	}
}

func TestAppendSkipsDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entries := domain.Snapshot{domain.PositionFirst: "3"}
	if err := repo.Append(ctx, 1, entries); err != nil {
		t.Fatalf("first append: %v", err)
	}
	// Retransmission of the same race is not an error.
	if err := repo.Append(ctx, 1, entries); err != nil {
		t.Fatalf("duplicate append: %v", err)
	}

	race, err := repo.GetRace(ctx, 1)
	if err != nil {
		t.Fatalf("GetRace: %v", err)
	}
	if len(race.Results) != 1 {
		t.Errorf("expected exactly one entry, got %v", race.Results)
	}
}

func TestAppendPartialRetransmission(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Append(ctx, 1, domain.Snapshot{domain.PositionFirst: "3"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Resubmitting the full set only writes the new entry.
	err := repo.Append(ctx, 1, domain.Snapshot{
		domain.PositionFirst:  "3",
		domain.PositionSecond: "1",
	})
	if err != nil {
		t.Fatalf("append with overlap: %v", err)
	}

	race, err := repo.GetRace(ctx, 1)
	if err != nil {
		t.Fatalf("GetRace: %v", err)
	}
	if len(race.Results) != 2 {
		t.Errorf("expected 2 entries, got %v", race.Results)
	}
}

func TestSameRaceKeepsDistinctTriples(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Append(ctx, 1, domain.Snapshot{domain.PositionFirst: "3"}); err != nil {
		t.Fatalf("append race 1: %v", err)
	}
	// The same lane in a different race is a different triple.
	if err := repo.Append(ctx, 2, domain.Snapshot{domain.PositionFirst: "3"}); err != nil {
		t.Fatalf("append race 2: %v", err)
	}

	for _, raceID := range []int64{1, 2} {
		if _, err := repo.GetRace(ctx, raceID); err != nil {
			t.Errorf("GetRace(%d): %v", raceID, err)
		}
	}
}

func TestListRacesMostRecentFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.Append(ctx, 1, domain.Snapshot{domain.PositionFirst: "1", domain.PositionSecond: "3"})
	repo.Append(ctx, 2, domain.Snapshot{domain.PositionFirst: "4"})

	races, err := repo.ListRaces(ctx)
	if err != nil {
		t.Fatalf("ListRaces: %v", err)
	}
	if len(races) != 2 {
		t.Fatalf("len = %d, want 2", len(races))
	}
	if races[0].RaceID != 2 || races[1].RaceID != 1 {
		t.Errorf("order = [%d, %d], want [2, 1]", races[0].RaceID, races[1].RaceID)
	}
	if races[1].Results[domain.PositionSecond] != "3" {
		t.Errorf("race 1 results = %v", races[1].Results)
	}
}

func TestListRacesEmptyStore(t *testing.T) {
	repo := newTestRepo(t)
	races, err := repo.ListRaces(context.Background())
	if err != nil {
		t.Fatalf("ListRaces: %v", err)
	}
	if len(races) != 0 {
		t.Errorf("expected no races, got %v", races)
	}
}

func TestGetRaceNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetRace(context.Background(), 42); !errors.Is(err, ErrRaceNotFound) {
		t.Errorf("expected ErrRaceNotFound, got %v", err)
	}
}

func TestMaxRaceID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	max, err := repo.MaxRaceID(ctx)
	if err != nil {
		t.Fatalf("MaxRaceID: %v", err)
	}
	if max != 0 {
		t.Errorf("empty store MaxRaceID = %d, want 0", max)
	}

	repo.Append(ctx, 7, domain.Snapshot{domain.PositionFirst: "2"})
	repo.Append(ctx, 3, domain.Snapshot{domain.PositionFirst: "5"})

	max, err = repo.MaxRaceID(ctx)
	if err != nil {
		t.Fatalf("MaxRaceID: %v", err)
	}
	if max != 7 {
		t.Errorf("MaxRaceID = %d, want 7", max)
	}
}
