//go:build !integration

package validation

import (
	"math"
	"testing"

	"brandreco/domain"
)

func TestF1AtKBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		actual    []string
		predicted []string
		k         int
		want      float64
	}{
		{
			name:      "identical sets",
			actual:    []string{"5 0", "6 0"},
			predicted: []string{"6 0", "5 0"},
			k:         10,
			want:      1.0,
		},
		{
			name:      "disjoint sets",
			actual:    []string{"5 0"},
			predicted: []string{"7 0", "8 0"},
			k:         10,
			want:      0.0,
		},
		{
			name:      "hit beyond cutoff does not count",
			actual:    []string{"9 0"},
			predicted: []string{"1 0", "2 0", "9 0"},
			k:         2,
			want:      0.0,
		},
		{
			name:      "partial overlap",
			actual:    []string{"5 0", "6 0"},
			predicted: []string{"5 0", "7 0"},
			k:         2,
			want:      0.5, // precision 1/2, recall 1/2
		},
		{
			name:      "empty predictions",
			actual:    []string{"5 0"},
			predicted: nil,
			k:         5,
			want:      0.0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := f1AtK(tc.actual, tc.predicted, tc.k)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("f1AtK = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAvgF1AtK(t *testing.T) {
	records := []domain.ValidationRecord{
		{MemberID: 1, Gender: 0, Test: []string{"5 0"}, Pred: []string{"5 0"}},
		{MemberID: 2, Gender: 0, Test: []string{"6 0"}, Pred: []string{"7 0"}},
	}

	got := AvgF1AtK(records, 10)
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("AvgF1AtK = %v, want 0.5", got)
	}

	if got := AvgF1AtK(nil, 10); got != 0 {
		t.Fatalf("no records must score 0, got %v", got)
	}
}

func TestScoreRecordsMetricName(t *testing.T) {
	metrics := ScoreRecords(nil, 5)
	if _, ok := metrics[MetricMAFAtK]; !ok {
		t.Fatalf("missing %q key: %v", MetricMAFAtK, metrics)
	}
}
