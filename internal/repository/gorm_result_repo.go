package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kg6zjl/derbylive/internal/domain"
	"github.com/kg6zjl/derbylive/pkg/log"
)

// GormResultRepository implements ResultRepository using GORM.
type GormResultRepository struct {
	db *gorm.DB
}

// NewGormResultRepository creates a new GORM-based result repository.
func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

// Append records one row per (position, lane) entry under raceID.
// Duplicate triples are skipped and the batch continues; requires the
// connection to be opened with TranslateError so constraint violations
// surface as gorm.ErrDuplicatedKey.
func (r *GormResultRepository) Append(ctx context.Context, raceID int64, entries domain.Snapshot) error {
	l := log.Ctx(ctx)

	for position, lane := range entries {
		row := domain.ResultModel{
			RaceID:   raceID,
			Lane:     lane,
			Position: string(position),
		}
		result := r.db.WithContext(ctx).Create(&row)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				l.Debug().
					Int64(log.FieldRaceID, raceID).
					Str("position", string(position)).
					Str("lane", lane).
					Msg("duplicate result entry skipped")
				continue
			}
			l.Error().Err(result.Error).Int64(log.FieldRaceID, raceID).Msg("failed to append race result")
			return result.Error
		}
	}
	return nil
}

// ListRaces returns every recorded race aggregated to its position→lane
// mapping, ordered by race id descending.
func (r *GormResultRepository) ListRaces(ctx context.Context) ([]domain.RaceSummary, error) {
	l := log.Ctx(ctx)

	var rows []domain.ResultModel
	result := r.db.WithContext(ctx).Order("race_id DESC").Find(&rows)
	if result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to list race results")
		return nil, result.Error
	}

	summaries := make([]domain.RaceSummary, 0)
	var current *domain.RaceSummary
	for _, row := range rows {
		if current == nil || current.RaceID != row.RaceID {
			summaries = append(summaries, domain.RaceSummary{
				RaceID:  row.RaceID,
				Results: domain.Snapshot{},
			})
			current = &summaries[len(summaries)-1]
		}
		current.Results[domain.Position(row.Position)] = row.Lane
	}
	return summaries, nil
}

// GetRace returns the aggregated mapping for one race plus its earliest
// recorded_at timestamp.
func (r *GormResultRepository) GetRace(ctx context.Context, raceID int64) (*domain.RaceDetail, error) {
	l := log.Ctx(ctx)

	var rows []domain.ResultModel
	result := r.db.WithContext(ctx).Where("race_id = ?", raceID).Order("recorded_at ASC").Find(&rows)
	if result.Error != nil {
		l.Error().Err(result.Error).Int64(log.FieldRaceID, raceID).Msg("failed to get race results")
		return nil, result.Error
	}
	if len(rows) == 0 {
		return nil, ErrRaceNotFound
	}

	detail := domain.RaceDetail{
		RaceSummary: domain.RaceSummary{
			RaceID:  raceID,
			Results: domain.Snapshot{},
		},
		RecordedAt: rows[0].RecordedAt,
	}
	for _, row := range rows {
		detail.Results[domain.Position(row.Position)] = row.Lane
		if row.RecordedAt.Before(detail.RecordedAt) {
			detail.RecordedAt = row.RecordedAt
		}
	}
	return &detail, nil
}

// MaxRaceID returns the highest race id ever recorded, or 0 when the store
// is empty.
func (r *GormResultRepository) MaxRaceID(ctx context.Context) (int64, error) {
	l := log.Ctx(ctx)

	var row domain.ResultModel
	result := r.db.WithContext(ctx).Order("race_id DESC").First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		l.Error().Err(result.Error).Msg("failed to query max race id")
		return 0, result.Error
	}
	return row.RaceID, nil
}
