package validation

import "brandreco/domain"

// MetricMAFAtK is the reported name of the mean F1@K ranking metric.
const MetricMAFAtK = "maf_at_k"

// f1AtK scores one ranked prediction list against a ground-truth set:
// precision and recall over the first k predictions, combined into their
// harmonic mean.
func f1AtK(actual, predicted []string, k int) float64 {
	if len(actual) == 0 {
		return 0
	}

	retrieved := predicted
	if len(retrieved) > k {
		retrieved = retrieved[:k]
	}
	if len(retrieved) == 0 {
		return 0
	}

	relevant := make(map[string]struct{}, len(actual))
	for _, item := range actual {
		relevant[item] = struct{}{}
	}

	hitCount := 0
	for _, item := range retrieved {
		if _, ok := relevant[item]; ok {
			hitCount++
		}
	}

	precision := float64(hitCount) / float64(len(retrieved))
	recall := float64(hitCount) / float64(len(relevant))
	if precision+recall == 0 {
		return 0
	}

	return 2 * precision * recall / (precision + recall)
}

// AvgF1AtK averages F1@K over all validation records. Records with empty
// ground truth are never built (see valPrep), so every record qualifies.
func AvgF1AtK(records []domain.ValidationRecord, k int) float64 {
	if len(records) == 0 {
		return 0
	}

	sum := 0.0
	for _, rec := range records {
		sum += f1AtK(rec.Test, rec.Pred, k)
	}

	return sum / float64(len(records))
}

// ScoreRecords reports the ranking metrics for one strategy's records.
func ScoreRecords(records []domain.ValidationRecord, k int) map[string]float64 {
	return map[string]float64{
		MetricMAFAtK: AvgF1AtK(records, k),
	}
}
