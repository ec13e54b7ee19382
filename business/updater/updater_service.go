package updater

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brandreco/domain"
	"brandreco/pkg/logger"
	"brandreco/pkg/metrics"

	"github.com/google/uuid"
)

// ErrInsufficientVolume means the interaction extract came back smaller
// than the configured minimum: an upstream data-source failure (truncated
// extract, broken query), not a legitimate business condition.
var ErrInsufficientVolume = errors.New("insufficient interaction volume")

// InteractionSource is the upstream analytical store raw events are pulled
// from.
type InteractionSource interface {
	FetchInteractions(ctx context.Context, lastNWeeks int) ([]domain.InteractionEvent, error)
}

// ScoreStore accepts a batch of scored interactions for bulk upsert.
type ScoreStore interface {
	BulkUpsert(ctx context.Context, scores []domain.ScoredInteraction) error
}

// Scorer collapses raw events into per-segment affinity scores.
type Scorer interface {
	ScoreInteractions(events []domain.InteractionEvent) ([]domain.ScoredInteraction, error)
}

// Service refreshes the key-value store with newly scored customer
// interactions.
type Service struct {
	source            InteractionSource
	store             ScoreStore
	scorer            Scorer
	lastNWeeks        int
	minRecordExpected int
}

func NewService(source InteractionSource, store ScoreStore, scorer Scorer, lastNWeeks, minRecordExpected int) *Service {
	return &Service{
		source:            source,
		store:             store,
		scorer:            scorer,
		lastNWeeks:        lastNWeeks,
		minRecordExpected: minRecordExpected,
	}
}

// Update runs one full refresh: fetch, volume check, score, bulk upsert.
// Data-quality faults are fatal and stop the run before anything is
// persisted.
func (s *Service) Update(ctx context.Context) error {
	start := time.Now()
	runID := uuid.NewString()

	logger.Info("Starting scored-interaction update",
		"run_id", runID, "last_n_weeks", s.lastNWeeks)

	events, err := s.fetchInteractions(ctx, runID)
	if err != nil {
		return err
	}

	if err := s.verifyMinRecordExpected(len(events)); err != nil {
		logger.Error("Interaction extract failed the volume check",
			"run_id", runID, "fetched", len(events), "expected_more_than", s.minRecordExpected)
		return err
	}
	logger.Info("Downloaded record check done", "run_id", runID, "fetched", len(events))

	scored, err := s.scorer.ScoreInteractions(events)
	if err != nil {
		return fmt.Errorf("customer interaction scoring failed: %w", err)
	}
	metrics.ScoredRowsProduced.Set(float64(len(scored)))

	if err := s.persistScores(ctx, runID, scored); err != nil {
		return err
	}

	metrics.UpdateRunDuration.Observe(time.Since(start).Seconds())
	logger.Info("Scored-interaction update finished",
		"run_id", runID, "scored_rows", len(scored), "elapsed", time.Since(start).String())

	return nil
}

func (s *Service) fetchInteractions(ctx context.Context, runID string) ([]domain.InteractionEvent, error) {
	start := time.Now()

	events, err := s.source.FetchInteractions(ctx, s.lastNWeeks)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer interactions: %w", err)
	}

	metrics.InteractionRowsFetched.Set(float64(len(events)))
	logger.Info("Customer interactions fetched",
		"run_id", runID, "rows", len(events), "elapsed", time.Since(start).String())

	return events, nil
}

// verifyMinRecordExpected guards against truncated extracts: a fetched row
// count at or below the threshold aborts the run.
func (s *Service) verifyMinRecordExpected(fetched int) error {
	if fetched <= s.minRecordExpected {
		return fmt.Errorf("%w: downloaded %d rows, expected more than %d",
			ErrInsufficientVolume, fetched, s.minRecordExpected)
	}

	return nil
}

func (s *Service) persistScores(ctx context.Context, runID string, scored []domain.ScoredInteraction) error {
	start := time.Now()

	if err := s.store.BulkUpsert(ctx, scored); err != nil {
		return fmt.Errorf("failed to persist scored interactions: %w", err)
	}

	logger.Info("Scored interactions persisted",
		"run_id", runID, "rows", len(scored), "elapsed", time.Since(start).String())

	return nil
}
