package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.validation_runs (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     run_id          TEXT NOT NULL,
//     train_rows      BIGINT NOT NULL,
//     test_rows       BIGINT NOT NULL,
//     sampled_members BIGINT NOT NULL,
//     skipped_members BIGINT NOT NULL,
//     metrics         JSONB NOT NULL,
//     duration_ms     BIGINT NOT NULL,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

// ValidationRun is the persisted ledger row of one validation run.
type ValidationRun struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement"`
	RunID          string         `gorm:"column:run_id;type:text"`
	TrainRows      int            `gorm:"column:train_rows"`
	TestRows       int            `gorm:"column:test_rows"`
	SampledMembers int            `gorm:"column:sampled_members"`
	SkippedMembers int            `gorm:"column:skipped_members"`
	Metrics        datatypes.JSON `gorm:"column:metrics"`
	DurationMS     int64          `gorm:"column:duration_ms"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
}

func (ValidationRun) TableName() string {
	return "validation_runs"
}

// ValidationReport is the in-memory result of a validation run, one metric
// map per strategy.
type ValidationReport struct {
	RunID          string             `json:"run_id"`
	Collaborative  map[string]float64 `json:"collaborative"`
	Content        map[string]float64 `json:"content"`
	Blended        map[string]float64 `json:"blended"`
	TrainRows      int                `json:"train_rows"`
	TestRows       int                `json:"test_rows"`
	SampledMembers int                `json:"sampled_members"`
	SkippedMembers int                `json:"skipped_members"`
}
