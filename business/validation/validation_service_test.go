//go:build !integration

package validation

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"brandreco/business/scoring"
	"brandreco/domain"

	"github.com/go-playground/validator/v10"
)

// fakeTrainer builds a uniform similarity artifact over every segment seen
// in the train hits: each pair of distinct segments gets similarity 1.
type fakeTrainer struct {
	fitCalls int
	err      error
}

func (f *fakeTrainer) Fit(_ context.Context, hits []Hit) (SimilarityArtifact, error) {
	f.fitCalls++
	if f.err != nil {
		return SimilarityArtifact{}, f.err
	}

	index := NewSegmentIndex()
	for _, h := range hits {
		index.Add(h.BrandGender)
	}

	n := index.Len()
	dense := make([][]float64, n)
	for i := range dense {
		dense[i] = make([]float64, n)
		for j := range dense[i] {
			if i != j {
				dense[i][j] = 1
			}
		}
	}

	return SimilarityArtifact{Matrix: NewCSRFromDense(dense), Index: index}, nil
}

type fakeReportStore struct {
	saved []*domain.ValidationRun
}

func (f *fakeReportStore) Save(_ context.Context, run *domain.ValidationRun) error {
	f.saved = append(f.saved, run)
	return nil
}

func testValidationParams() Params {
	return Params{
		NRec:       10,
		KVal:       10,
		Alpha:      0.5,
		BGCutpoint: 2,
		CycleCount: 3,
		NSample:    100,
	}
}

func scoredFixture() []domain.ScoredInteraction {
	// three members, several brands each, one gender, enough rows per
	// (member, gender) group to pass cutpoint 2 and fill 3 cycle buckets
	var scored []domain.ScoredInteraction
	for member := uint64(1); member <= 3; member++ {
		for brand := 1; brand <= 6; brand++ {
			scored = append(scored, domain.ScoredInteraction{
				MemberID:    member,
				BrandGender: scoring.BrandGenderKey(brand, 0),
				TotalHits:   float64(brand) + float64(member),
			})
		}
	}
	return scored
}

func newTestValidationService(t *testing.T, cf, cb SimilarityTrainer, reports ReportStore) *Service {
	t.Helper()

	svc, err := NewService(testValidationParams(), cf, cb, reports, rand.New(rand.NewSource(11)), validator.New())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRunEmptyInputIsFatal(t *testing.T) {
	svc := newTestValidationService(t, &fakeTrainer{}, &fakeTrainer{}, nil)

	if _, err := svc.Run(context.Background(), nil); !errors.Is(err, ErrEmptyHits) {
		t.Fatalf("expected ErrEmptyHits, got %v", err)
	}
}

func TestRunProducesAllThreeStrategies(t *testing.T) {
	cf := &fakeTrainer{}
	cb := &fakeTrainer{}
	store := &fakeReportStore{}
	svc := newTestValidationService(t, cf, cb, store)

	report, err := svc.Run(context.Background(), scoredFixture())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if cf.fitCalls != 1 || cb.fitCalls != 1 {
		t.Fatalf("each trainer must fit exactly once: cf=%d cb=%d", cf.fitCalls, cb.fitCalls)
	}
	for name, metrics := range map[string]map[string]float64{
		"collaborative": report.Collaborative,
		"content":       report.Content,
		"blended":       report.Blended,
	} {
		score, ok := metrics[MetricMAFAtK]
		if !ok {
			t.Fatalf("strategy %s missing %s", name, MetricMAFAtK)
		}
		if score < 0 || score > 1 {
			t.Fatalf("strategy %s score %v outside [0,1]", name, score)
		}
	}

	if report.TrainRows == 0 || report.TestRows == 0 {
		t.Fatalf("split produced empty partitions: %+v", report)
	}
	if report.TrainRows+report.TestRows != len(scoredFixture()) {
		t.Fatalf("split lost rows: %+v", report)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected 1 persisted run, got %d", len(store.saved))
	}
	if store.saved[0].RunID != report.RunID {
		t.Fatalf("persisted run id mismatch")
	}
}

func TestRunDeterministicUnderSeed(t *testing.T) {
	runOnce := func() *domain.ValidationReport {
		svc := newTestValidationService(t, &fakeTrainer{}, &fakeTrainer{}, nil)
		report, err := svc.Run(context.Background(), scoredFixture())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return report
	}

	a, b := runOnce(), runOnce()
	if a.Collaborative[MetricMAFAtK] != b.Collaborative[MetricMAFAtK] ||
		a.Blended[MetricMAFAtK] != b.Blended[MetricMAFAtK] {
		t.Fatalf("same seed produced different metrics: %+v vs %+v", a, b)
	}
}

func TestRunTrainerFailurePropagates(t *testing.T) {
	boom := errors.New("model exploded")
	svc := newTestValidationService(t, &fakeTrainer{err: boom}, &fakeTrainer{}, nil)

	if _, err := svc.Run(context.Background(), scoredFixture()); !errors.Is(err, boom) {
		t.Fatalf("expected trainer error to propagate, got %v", err)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	svc := newTestValidationService(t, &fakeTrainer{}, &fakeTrainer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Run(ctx, scoredFixture()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// A member whose history already covers every catalog segment gets an empty
// recommendation list. Their held-out truth must still be scored, with F1=0,
// instead of being dropped from the average.
func TestBatchPredictEmptyPredictionStillScoresTruth(t *testing.T) {
	svc := newTestValidationService(t, &fakeTrainer{}, &fakeTrainer{}, nil)

	art := testArtifact(
		[]string{"1 0", "2 0"},
		[][]float64{{0, 1}, {1, 0}},
	)
	trainByMember := map[uint64][]Hit{
		1: {hitRow(1, 1, 0, 1), hitRow(1, 2, 0, 1)},
		2: {hitRow(2, 1, 0, 1)},
	}
	testByMember := map[uint64][]Hit{
		1: {hitRow(1, 3, 0, 1)},
		2: {hitRow(2, 2, 0, 1)},
	}

	preds, records, skipped, err := svc.batchPredict(
		context.Background(), []uint64{1, 2}, trainByMember, testByMember, art)
	if err != nil {
		t.Fatalf("batchPredict: %v", err)
	}

	if skipped != 1 {
		t.Fatalf("expected member 1 to be counted as skipped, got %d", skipped)
	}
	for _, p := range preds {
		if p.MemberID == 1 {
			t.Fatalf("skipped member must contribute no predictions: %+v", p)
		}
	}

	if len(records) != 2 {
		t.Fatalf("expected records for both members' truth, got %d", len(records))
	}
	byMember := make(map[uint64]domain.ValidationRecord)
	for _, r := range records {
		byMember[r.MemberID] = r
	}
	if len(byMember[1].Pred) != 0 || len(byMember[1].Test) != 1 {
		t.Fatalf("skipped member's record must pair truth with an empty ranking: %+v", byMember[1])
	}

	// member 2 predicts "2 0" and their truth is "2 0": only their record
	// scores, so the mean halves
	if got := AvgF1AtK(records, 10); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("AvgF1AtK = %v, want 0.5", got)
	}
}

func TestValPrepSkipsEmptyTruth(t *testing.T) {
	preds := []domain.Recommendation{rec(1, 5, 0, 1, false)}

	records := valPrep(1, nil, preds)
	if len(records) != 0 {
		t.Fatalf("empty ground truth must produce no records, got %d", len(records))
	}

	records = valPrep(1, []Hit{hitRow(1, 6, 0, 1)}, preds)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Gender != 0 || len(records[0].Test) != 1 {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}
