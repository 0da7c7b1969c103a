package domain

import (
	"time"
)

// ResultModel is the GORM model for the race_results table. Rows are
// append-only: created on publish, never updated, never deleted.
//
// The composite unique index over (race_id, lane, position) is the
// authority for deduplication: a race never has two lanes at the same
// position, nor one lane at two positions, and retransmitting the same
// result is a no-op at the store level.
type ResultModel struct {
	ID            uint      `gorm:"primaryKey"`
	RaceID        int64     `gorm:"uniqueIndex:idx_race_lane_position;not null"`
	Lane          string    `gorm:"type:varchar(50);uniqueIndex:idx_race_lane_position;not null"`
	Position      string    `gorm:"type:varchar(50);uniqueIndex:idx_race_lane_position;not null"`
	RecordedAt    time.Time `gorm:"autoCreateTime"`
	ElapsedMicros int64     `gorm:"not null;default:0"`
}

// TableName specifies the table name for ResultModel.
func (ResultModel) TableName() string {
	return "race_results"
}

// RaceSummary is the aggregated position→lane view of one race.
type RaceSummary struct {
	RaceID  int64    `json:"race_id"`
	Results Snapshot `json:"results"`
}

// RaceDetail is a RaceSummary plus the time the race was first recorded.
type RaceDetail struct {
	RaceSummary
	RecordedAt time.Time `json:"recorded_at"`
}
