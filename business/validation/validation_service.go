package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"brandreco/domain"
	"brandreco/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ErrEmptyHits means the scored interaction table had zero rows; a
// validation run over no data is meaningless and aborts before training.
var ErrEmptyHits = errors.New("can not validate empty scored interactions")

// SimilarityTrainer is the external model boundary. Implementations own the
// factorization/nearest-neighbor internals; the core only consumes the
// returned artifact.
type SimilarityTrainer interface {
	Fit(ctx context.Context, hits []Hit) (SimilarityArtifact, error)
}

// ReportStore persists the run ledger row.
type ReportStore interface {
	Save(ctx context.Context, run *domain.ValidationRun) error
}

// Params gathers every knob of a validation run.
type Params struct {
	NRec       int     `validate:"gt=0"`
	KVal       int     `validate:"gt=0"`
	Alpha      float64 `validate:"gte=0,lte=1"`
	BGCutpoint int     `validate:"gt=0"`
	CycleCount int     `validate:"gt=1"`
	NSample    int     `validate:"gt=0"`
}

// Service drives a full validation cycle: split, train both similarity
// models, predict for a sampled population, blend, and score each strategy
// against the held-out ground truth.
type Service struct {
	params    Params
	cfTrainer SimilarityTrainer
	cbTrainer SimilarityTrainer
	reports   ReportStore
	rng       *rand.Rand
}

func NewService(
	params Params,
	cfTrainer SimilarityTrainer,
	cbTrainer SimilarityTrainer,
	reports ReportStore,
	rng *rand.Rand,
	validate *validator.Validate,
) (*Service, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid validation params: %w", err)
	}

	return &Service{
		params:    params,
		cfTrainer: cfTrainer,
		cbTrainer: cbTrainer,
		reports:   reports,
		rng:       rng,
	}, nil
}

// Run executes one validation cycle over the scored interaction table and
// returns the per-strategy ranking metrics.
func (s *Service) Run(ctx context.Context, scored []domain.ScoredInteraction) (*domain.ValidationReport, error) {
	if len(scored) == 0 {
		return nil, ErrEmptyHits
	}

	start := time.Now()
	runID := uuid.NewString()
	logger.Info("Starting validation run", "run_id", runID, "incoming_rows", len(scored))

	hits, err := SplitBrandGender(scored)
	if err != nil {
		return nil, fmt.Errorf("brand_gender split failed: %w", err)
	}

	splitter := NewSplitter(s.params.BGCutpoint, s.params.CycleCount, s.rng)
	train, test := splitter.Split(hits)

	members := s.sampleMembers(train)
	trainByMember := groupByMember(train)
	testByMember := groupByMember(test)

	logger.Info("Sampled members for validation", "run_id", runID, "members", len(members))

	cfArt, err := s.cfTrainer.Fit(ctx, train)
	if err != nil {
		return nil, fmt.Errorf("collaborative trainer failed: %w", err)
	}

	cfPreds, cfRecords, cfSkipped, err := s.batchPredict(ctx, members, trainByMember, testByMember, cfArt)
	if err != nil {
		return nil, err
	}
	cfMetrics := ScoreRecords(cfRecords, s.params.KVal)
	logger.Info("Collaborative strategy scored", "run_id", runID,
		MetricMAFAtK, cfMetrics[MetricMAFAtK], "skipped_members", cfSkipped)

	cbArt, err := s.cbTrainer.Fit(ctx, train)
	if err != nil {
		return nil, fmt.Errorf("content trainer failed: %w", err)
	}

	cbPreds, cbRecords, cbSkipped, err := s.batchPredict(ctx, members, trainByMember, testByMember, cbArt)
	if err != nil {
		return nil, err
	}
	cbMetrics := ScoreRecords(cbRecords, s.params.KVal)
	logger.Info("Content strategy scored", "run_id", runID,
		MetricMAFAtK, cbMetrics[MetricMAFAtK], "skipped_members", cbSkipped)

	cbPreds = RescaleContent(cbPreds, cfPreds)

	blender := &Blender{Alpha: s.params.Alpha}
	blended := blender.Blend(cfPreds, cbPreds)
	blendRecords := s.collectRecords(blended, testByMember)
	blendMetrics := ScoreRecords(blendRecords, s.params.KVal)
	logger.Info("Blended strategy scored", "run_id", runID,
		MetricMAFAtK, blendMetrics[MetricMAFAtK])

	report := &domain.ValidationReport{
		RunID:          runID,
		Collaborative:  cfMetrics,
		Content:        cbMetrics,
		Blended:        blendMetrics,
		TrainRows:      len(train),
		TestRows:       len(test),
		SampledMembers: len(members),
		SkippedMembers: cfSkipped + cbSkipped,
	}

	if s.reports != nil {
		if err := s.saveReport(ctx, report, time.Since(start)); err != nil {
			return nil, err
		}
	}

	logger.Info("Validation run completed", "run_id", runID, "elapsed", time.Since(start).String())

	return report, nil
}

// sampleMembers draws up to NSample distinct train-set members without
// replacement, deterministic under the injected seed.
func (s *Service) sampleMembers(train []Hit) []uint64 {
	var members []uint64
	seen := make(map[uint64]struct{})
	for _, h := range train {
		if _, ok := seen[h.MemberID]; ok {
			continue
		}
		seen[h.MemberID] = struct{}{}
		members = append(members, h.MemberID)
	}

	if len(members) <= s.params.NSample {
		return members
	}

	sampled := make([]uint64, 0, s.params.NSample)
	for _, idx := range s.rng.Perm(len(members))[:s.params.NSample] {
		sampled = append(sampled, members[idx])
	}

	return sampled
}

// batchPredict recommends for every sampled member and pairs the ranked
// predictions with that member's held-out ground truth. A member whose
// prediction comes back empty is counted and excluded from the prediction
// set, but their qualifying truth records still enter the metric with an
// empty ranked list; the batch continues.
func (s *Service) batchPredict(
	ctx context.Context,
	members []uint64,
	trainByMember map[uint64][]Hit,
	testByMember map[uint64][]Hit,
	art SimilarityArtifact,
) ([]domain.Recommendation, []domain.ValidationRecord, int, error) {
	recommender := &Recommender{NRec: s.params.NRec}

	var preds []domain.Recommendation
	var records []domain.ValidationRecord
	skipped := 0

	for _, memberID := range members {
		if err := ctx.Err(); err != nil {
			return nil, nil, 0, fmt.Errorf("batch predict interrupted: %w", err)
		}

		memberPreds := recommender.Recommend(memberID, trainByMember[memberID], art)
		if len(memberPreds) == 0 {
			skipped++
			SkippedMembersTotal.Inc()
			// non-empty held-out truth still qualifies; an empty ranked
			// list scores zero rather than vanishing from the average
			records = append(records, valPrep(memberID, testByMember[memberID], nil)...)
			continue
		}

		preds = append(preds, memberPreds...)
		records = append(records, valPrep(memberID, testByMember[memberID], memberPreds)...)
	}

	return preds, records, skipped, nil
}

// collectRecords rebuilds validation records from an already-blended,
// per-member-sorted prediction list.
func (s *Service) collectRecords(blended []domain.Recommendation, testByMember map[uint64][]Hit) []domain.ValidationRecord {
	byMember := make(map[uint64][]domain.Recommendation)
	var order []uint64
	for _, rec := range blended {
		if _, ok := byMember[rec.MemberID]; !ok {
			order = append(order, rec.MemberID)
		}
		byMember[rec.MemberID] = append(byMember[rec.MemberID], rec)
	}

	var records []domain.ValidationRecord
	for _, memberID := range order {
		records = append(records, valPrep(memberID, testByMember[memberID], byMember[memberID])...)
	}

	return records
}

// valPrep builds one record per gender with non-empty held-out truth,
// pairing it with the ranked predictions for that gender.
func valPrep(memberID uint64, testHits []Hit, preds []domain.Recommendation) []domain.ValidationRecord {
	var records []domain.ValidationRecord

	for _, gender := range []int8{domain.GenderWomen, domain.GenderMen} {
		var truth []string
		for _, h := range testHits {
			if h.Gender == gender {
				truth = append(truth, h.BrandGender)
			}
		}
		if len(truth) == 0 {
			continue
		}

		var ranked []string
		for _, rec := range preds {
			if rec.Gender == gender {
				ranked = append(ranked, rec.BrandGender)
			}
		}

		records = append(records, domain.ValidationRecord{
			MemberID: memberID,
			Gender:   gender,
			Test:     truth,
			Pred:     ranked,
		})
	}

	return records
}

func groupByMember(hits []Hit) map[uint64][]Hit {
	grouped := make(map[uint64][]Hit)
	for _, h := range hits {
		grouped[h.MemberID] = append(grouped[h.MemberID], h)
	}

	return grouped
}

func (s *Service) saveReport(ctx context.Context, report *domain.ValidationReport, elapsed time.Duration) error {
	payload, err := json.Marshal(map[string]map[string]float64{
		"collaborative": report.Collaborative,
		"content":       report.Content,
		"blended":       report.Blended,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal validation metrics: %w", err)
	}

	run := &domain.ValidationRun{
		RunID:          report.RunID,
		TrainRows:      report.TrainRows,
		TestRows:       report.TestRows,
		SampledMembers: report.SampledMembers,
		SkippedMembers: report.SkippedMembers,
		Metrics:        datatypes.JSON(payload),
		DurationMS:     elapsed.Milliseconds(),
		CreatedAt:      time.Now(),
	}

	if err := s.reports.Save(ctx, run); err != nil {
		return fmt.Errorf("failed to persist validation run: %w", err)
	}

	return nil
}
